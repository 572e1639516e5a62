package routine

import (
	"fmt"
	"time"
)

const longDate = "January 02, 2006"

// ReportPrompt is the instruction for the morning report run. Paths are
// relative to the claude working directory.
func ReportPrompt(today time.Time) string {
	return fmt.Sprintf(`Run the complete start-of-day routine. Today's date is %s.

1. Move any previous morning-report_*.md files from desktop/ to desktop/archive/
2. Clean up completed tasks from active.md (move to archive/completed.md)
3. Clean up ## Done column in taskell.md (move to archive/completed.md, then clear)
4. Sync active.md and taskell.md - ensure both have same pending tasks
5. Update active.md date header
6. Check calendar for today and next 2 days
7. Review emails from last day, add follow-ups to BOTH files
8. Generate and save morning report to desktop/morning-report_%s.md
9. Return the report text`, today.Format(longDate), today.Format(dateLayout))
}

// EmailPrompt asks for report to be mailed to recipient.
func EmailPrompt(today time.Time, recipient, report string) string {
	return fmt.Sprintf(`Send an email using the Gmail MCP with:
- To: %s
- Subject: "Morning Report - %s"
- Body: The following morning report (format as HTML):

%s`, recipient, today.Format(longDate), report)
}
