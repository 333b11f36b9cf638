package activity

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
)

const TimestampLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"Admin", "Action", "Model", "Description", "IP Address", "Timestamp", "Object ID"}

// ExportFilename — admin_activities_YYYY-mm-dd_HH-MM.csv
func ExportFilename(now time.Time) string {
	return "admin_activities_" + now.Format("2006-01-02_15-04") + ".csv"
}

// ExportCSV пишет все записи под фильтром, новые первыми.
func (r *Recorder) ExportCSV(ctx context.Context, w io.Writer, f Filter) error {
	var rows []models.AdminActivity
	err := r.query(ctx, f).
		Preload("Admin").
		Order(activityOrder).
		Find(&rows).Error
	if err != nil {
		return fmt.Errorf("activity: export: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("activity: export header: %w", err)
	}
	for _, a := range rows {
		if err := cw.Write(csvRecord(a)); err != nil {
			return fmt.Errorf("activity: export row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRecord(a models.AdminActivity) []string {
	objectID := ""
	if a.ObjectID != nil {
		objectID = strconv.FormatUint(uint64(*a.ObjectID), 10)
	}
	return []string{
		a.Admin.Username,
		a.Action.Label(),
		a.ModelName,
		a.Description,
		a.IPAddress,
		a.Timestamp.Format(TimestampLayout),
		objectID,
	}
}
