package trainer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/gymtrainer/internal/gymstats/progress"
	"github.com/2beens/gymtrainer/internal/gymstats/session"
)

func statusMark(status progress.Status) string {
	switch status {
	case progress.StatusCompleted:
		return "[x]"
	case progress.StatusInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

func (c *Console) printOverview() {
	var sb strings.Builder
	for _, row := range c.selector.Overview() {
		active := " "
		if row.Active {
			active = "*"
		}
		fmt.Fprintf(&sb, "%s%d. %s %-20s %d/%d sets", active, row.Position, statusMark(row.Status), row.ID, row.CompletedSets, row.TotalSets)
		if row.BodyPart != "" {
			fmt.Fprintf(&sb, "  (%s", row.BodyPart)
			if row.Equipment != "" {
				fmt.Fprintf(&sb, ", %s", row.Equipment)
			}
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	}
	c.printf("%s", sb.String())
}

func describeCursor(cursor *session.Cursor) string {
	if cursor == nil {
		return "nothing"
	}
	spec := cursor.SetSpec
	desc := fmt.Sprintf("%s, set %d: %d reps", cursor.SetGroup.Type.Label(), cursor.Set+1, spec.Reps)
	if spec.Weight > 0 {
		desc += fmt.Sprintf(" x %.1fkg", spec.Weight)
	}
	if spec.RPE != nil {
		desc += fmt.Sprintf(" @ RPE %.1f", *spec.RPE)
	}
	return desc
}

// completionRow renders the completion matrix as one bracket per group, e.g. [x x .] [.].
func completionRow(completion [][]bool) string {
	groups := make([]string, 0, len(completion))
	for _, row := range completion {
		cells := make([]string, 0, len(row))
		for _, done := range row {
			if done {
				cells = append(cells, "x")
			} else {
				cells = append(cells, ".")
			}
		}
		groups = append(groups, "["+strings.Join(cells, " ")+"]")
	}
	return strings.Join(groups, " ")
}

func (c *Console) printSnapshot(snap session.Snapshot) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s, %d/%d sets %s\n", snap.ExerciseID, snap.Phase, snap.CompletedSets, snap.TotalSets, completionRow(snap.Completion))
	switch {
	case snap.Closed:
		sb.WriteString("  closed\n")
	case snap.Phase == session.PhaseActive:
		fmt.Fprintf(&sb, "  now: %s\n", describeCursor(snap.Cursor))
	case snap.Phase == session.PhaseResting:
		fmt.Fprintf(&sb, "  resting %ds, next: %s\n", snap.RestRemaining, describeCursor(snap.Cursor))
	case snap.Phase == session.PhaseCompleted:
		sb.WriteString("  exercise completed\n")
	}
	c.printf("%s", sb.String())
}

func (c *Console) printSummary() {
	summary := c.selector.Summary()
	c.printf("exercises: %d completed, %d in progress, %d not started (of %d)\n",
		summary.ExercisesCompleted, summary.ExercisesInProgress, summary.ExercisesNotStarted, summary.Exercises)
	c.printf("sets: %d/%d\n", summary.SetsCompleted, summary.SetsTotal)

	avg := c.analyzer.AvgSetDuration(context.Background())
	if avg.Duration > 0 {
		c.printf("avg time per set: %s\n", avg.Duration.Round(time.Second))
	}
}
