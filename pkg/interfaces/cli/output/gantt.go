package output

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
)

const ganttWidth = 72

// RenderGantt writes an ASCII Gantt view of a schedule: one row per
// work center, slots labeled by job, scaled to fit the terminal.
func RenderGantt(w io.Writer, schedule *entities.Schedule) {
	if schedule == nil || len(schedule.Slots) == 0 {
		fmt.Fprintln(w, "(empty schedule)")
		return
	}

	makespan := schedule.MaxEnd()
	if makespan <= 0 {
		fmt.Fprintln(w, "(empty schedule)")
		return
	}
	scale := float64(ganttWidth) / makespan

	centers := make([]entities.WorkCenterID, 0, len(schedule.Slots))
	for wc := range schedule.Slots {
		centers = append(centers, wc)
	}
	sort.Slice(centers, func(i, j int) bool { return centers[i] < centers[j] })

	fmt.Fprintf(w, "%-12s 0h%s%.1fh\n", "",
		strings.Repeat(" ", ganttWidth-8), makespan)

	for _, wc := range centers {
		row := []rune(strings.Repeat(".", ganttWidth))

		slots := append([]entities.ScheduledSlot(nil), schedule.Slots[wc]...)
		sort.Slice(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })

		for _, slot := range slots {
			from := int(math.Floor(slot.Start * scale))
			to := int(math.Ceil(slot.End * scale))
			if to > ganttWidth {
				to = ganttWidth
			}
			label := []rune(string(slot.JobID))
			for i := from; i < to; i++ {
				if i-from < len(label) {
					row[i] = label[i-from]
				} else {
					row[i] = '='
				}
			}
		}
		fmt.Fprintf(w, "%-12s %s\n", wc, string(row))
	}
}
