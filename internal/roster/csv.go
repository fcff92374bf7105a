package roster

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/aura-attendance/backend/internal/models"
	"github.com/aura-attendance/backend/internal/web"
)

// ExportFilename is the attachment name of the CSV export.
const ExportFilename = "attendance_export.csv"

// CSVHeader is the export's header row.
var CSVHeader = []string{"ID", "Name", "Role", "Group", "Timestamp (UTC)", "Access Token Used"}

// WriteCSV writes the header and one row per attendee.
func WriteCSV(w io.Writer, attendees []models.Attendee) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, a := range attendees {
		record := []string{
			strconv.FormatInt(a.ID, 10),
			a.Name,
			a.Role,
			a.GroupName(),
			a.Timestamp.UTC().Format(web.TimeLayout),
			a.AccessTokenUsed,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
