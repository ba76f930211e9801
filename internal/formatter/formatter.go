// package formatter renders a run's detail as the plain-text summary users paste into an analysis tool,
// and exports the lap or split table as CSV.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/stride/internal/models"
)

// Placeholder stands in for any optional value Strava did not report.
const Placeholder = "n/a"

const (
	preamble         = "I've just been on another run, here are the summary statistics and splits. Can you please analyse this and give me feedback. Adjust my plan if necessary."
	structuredHeader = "It was a structured session, here are the splits:"
	regularHeader    = "Here are the splits:"
)

func float(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func integer(v *int) string {
	if v == nil {
		return Placeholder
	}
	return strconv.Itoa(*v)
}

func text(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// FormatSummary renders the summary for a single run.
//
// Structured sessions (workout type 3) list laps, everything else lists metric splits.
// Callers are expected to check [models.ActivityDetail.IsRun] first.
func FormatSummary(detail *models.ActivityDetail) string {
	lines := []string{
		preamble,
		fmt.Sprintf(
			"Run Name: %s, Start time: %s, Total distance (m): %s, Total time (s): %s, Total elevation gain (m): %s",
			text(detail.Name), text(detail.StartDateLocal), float(detail.Distance),
			integer(detail.MovingTime), float(detail.TotalElevationGain),
		),
	}

	if gear := detail.Gear; gear != nil && gear.Name != "" {
		lines = append(lines, fmt.Sprintf(
			"I was wearing %s shoes. They've been used for a total of %s meters of running.",
			gear.Name, float(gear.Distance),
		))
	}

	if detail.IsStructured() {
		lines = append(lines, LapLines(detail.Laps)...)
	} else {
		lines = append(lines, SplitLines(detail.SplitsMetric)...)
	}

	return strings.Join(lines, "\n")
}

// LapLines renders the structured-session header followed by one line per lap, in input order.
func LapLines(laps []models.Lap) []string {
	lines := []string{structuredHeader, ""}
	for _, lap := range laps {
		lines = append(lines, fmt.Sprintf(
			"Lap %s: %sm in %ss, Avg Speed: %s m/s, Avg HR: %s bpm, Average cadence(spm): %s",
			integer(lap.LapIndex), float(lap.Distance), integer(lap.MovingTime),
			float(lap.AverageSpeed), float(lap.AverageHeartrate), float(lap.AverageCadence),
		))
	}
	return lines
}

// SplitLines renders the regular header followed by one line per metric split, in input order.
func SplitLines(splits []models.Split) []string {
	lines := []string{regularHeader, ""}
	for _, s := range splits {
		lines = append(lines, fmt.Sprintf(
			"Split %s: %sm in %ss, Elevation change(m): %s, Avg Speed: %s m/s, Avg HR: %s bpm",
			integer(s.Split), float(s.Distance), integer(s.MovingTime),
			float(s.ElevationDifference), float(s.AverageSpeed), float(s.AverageHeartrate),
		))
	}
	return lines
}

// ExportSplitsCSV converts the segments of a run to CSV.
//
// Structured sessions export laps with columns: Lap, Distance, MovingTime, AvgSpeed, AvgHR, AvgCadence.
// Other runs export splits with columns: Split, Distance, MovingTime, ElevationChange, AvgSpeed, AvgHR.
func ExportSplitsCSV(detail *models.ActivityDetail) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	var headers []string
	var records [][]string
	if detail.IsStructured() {
		headers = []string{"Lap", "Distance", "MovingTime", "AvgSpeed", "AvgHR", "AvgCadence"}
		for _, lap := range detail.Laps {
			records = append(records, []string{
				integer(lap.LapIndex),
				float(lap.Distance),
				integer(lap.MovingTime),
				float(lap.AverageSpeed),
				float(lap.AverageHeartrate),
				float(lap.AverageCadence),
			})
		}
	} else {
		headers = []string{"Split", "Distance", "MovingTime", "ElevationChange", "AvgSpeed", "AvgHR"}
		for _, s := range detail.SplitsMetric {
			records = append(records, []string{
				integer(s.Split),
				float(s.Distance),
				integer(s.MovingTime),
				float(s.ElevationDifference),
				float(s.AverageSpeed),
				float(s.AverageHeartrate),
			})
		}
	}

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteTextExport writes a rendered summary to a file.
//
// Defaults to summary.txt as the filename.
func WriteTextExport(summary, filepath string) (string, error) {
	if filepath == "" {
		filepath = "summary.txt"
	}

	if err := os.WriteFile(filepath, []byte(summary+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteCSVExport writes the lap or split table to {base}_splits.csv.
//
// Defaults to the activity ID as the base filename.
func WriteCSVExport(detail *models.ActivityDetail, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = strconv.FormatInt(detail.ID, 10)
	}

	csvData, err := ExportSplitsCSV(detail)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	splitsFile := baseFilepath + "_splits.csv"
	if err := os.WriteFile(splitsFile, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return splitsFile, nil
}
