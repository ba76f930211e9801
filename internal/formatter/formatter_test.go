package formatter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/stride/internal/models"
	th "github.com/desertthunder/stride/internal/testing"
)

func structuredRun() *models.ActivityDetail {
	return &models.ActivityDetail{
		ID:                 42,
		Name:               "Track Tuesday",
		StartDateLocal:     "2024-03-05T18:00:00Z",
		Distance:           th.Ptr(8000.0),
		MovingTime:         th.Ptr(2400),
		TotalElevationGain: th.Ptr(12.5),
		SportType:          models.SportRun,
		WorkoutType:        th.Ptr(models.WorkoutStructured),
		Gear:               &models.Gear{Name: "Shoe A", Distance: th.Ptr(412000.5)},
		Laps: []models.Lap{
			{
				LapIndex:         th.Ptr(1),
				Distance:         th.Ptr(1000.0),
				MovingTime:       th.Ptr(240),
				AverageSpeed:     th.Ptr(4.17),
				AverageHeartrate: th.Ptr(165.2),
				AverageCadence:   th.Ptr(88.0),
			},
			{
				LapIndex:     th.Ptr(2),
				Distance:     th.Ptr(400.0),
				MovingTime:   th.Ptr(180),
				AverageSpeed: th.Ptr(2.2),
			},
		},
		SplitsMetric: []models.Split{{Split: th.Ptr(1)}},
	}
}

func regularRun() *models.ActivityDetail {
	return &models.ActivityDetail{
		ID:                 7,
		Name:               "Easy Sunday",
		StartDateLocal:     "2024-03-03T09:00:00Z",
		Distance:           th.Ptr(2000.0),
		MovingTime:         th.Ptr(660),
		TotalElevationGain: th.Ptr(4.0),
		SportType:          models.SportRun,
		WorkoutType:        th.Ptr(0),
		Laps:               []models.Lap{{LapIndex: th.Ptr(1)}},
		SplitsMetric: []models.Split{
			{
				Split:               th.Ptr(1),
				Distance:            th.Ptr(1000.0),
				MovingTime:          th.Ptr(330),
				ElevationDifference: th.Ptr(1.5),
				AverageSpeed:        th.Ptr(3.03),
				AverageHeartrate:    th.Ptr(140.0),
			},
			{
				Split:               th.Ptr(2),
				Distance:            th.Ptr(1000.0),
				MovingTime:          th.Ptr(330),
				ElevationDifference: th.Ptr(-0.5),
				AverageSpeed:        th.Ptr(3.03),
				AverageHeartrate:    th.Ptr(144.1),
			},
		},
	}
}

func TestFormatSummary(t *testing.T) {
	t.Run("Structured Session", func(t *testing.T) {
		got := FormatSummary(structuredRun())

		want := strings.Join([]string{
			preamble,
			"Run Name: Track Tuesday, Start time: 2024-03-05T18:00:00Z, Total distance (m): 8000, Total time (s): 2400, Total elevation gain (m): 12.5",
			"I was wearing Shoe A shoes. They've been used for a total of 412000.5 meters of running.",
			"It was a structured session, here are the splits:",
			"",
			"Lap 1: 1000m in 240s, Avg Speed: 4.17 m/s, Avg HR: 165.2 bpm, Average cadence(spm): 88",
			"Lap 2: 400m in 180s, Avg Speed: 2.2 m/s, Avg HR: n/a bpm, Average cadence(spm): n/a",
		}, "\n")

		if got != want {
			t.Errorf("FormatSummary mismatch\ngot:\n%s\n\nwant:\n%s", got, want)
		}

		if strings.Contains(got, "Split ") {
			t.Error("structured summary should not list splits")
		}
	})

	t.Run("Regular Run", func(t *testing.T) {
		got := FormatSummary(regularRun())
		lines := strings.Split(got, "\n")

		if len(lines) != 6 {
			t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), got)
		}
		if lines[0] != preamble {
			t.Errorf("expected preamble first, got %q", lines[0])
		}
		if lines[2] != "Here are the splits:" || lines[3] != "" {
			t.Errorf("expected splits header and blank line, got %q %q", lines[2], lines[3])
		}
		if lines[4] != "Split 1: 1000m in 330s, Elevation change(m): 1.5, Avg Speed: 3.03 m/s, Avg HR: 140 bpm" {
			t.Errorf("unexpected first split line %q", lines[4])
		}
		if !strings.HasPrefix(lines[5], "Split 2:") || !strings.Contains(lines[5], "Elevation change(m): -0.5") {
			t.Errorf("unexpected second split line %q", lines[5])
		}
		if strings.Contains(got, "I was wearing") {
			t.Error("expected no gear line without gear")
		}
		if strings.Contains(got, "Lap ") {
			t.Error("regular summary should not list laps")
		}
	})

	t.Run("Absent Workout Type Uses Splits", func(t *testing.T) {
		detail := regularRun()
		detail.WorkoutType = nil

		if !strings.Contains(FormatSummary(detail), "Here are the splits:") {
			t.Error("expected regular splits when workout type is absent")
		}
	})

	t.Run("Gear", func(t *testing.T) {
		tc := []struct {
			name string
			gear *models.Gear
			want string
		}{
			{name: "absent", gear: nil, want: ""},
			{name: "unnamed", gear: &models.Gear{Distance: th.Ptr(10.0)}, want: ""},
			{
				name: "without distance",
				gear: &models.Gear{Name: "Shoe B"},
				want: "I was wearing Shoe B shoes. They've been used for a total of n/a meters of running.",
			},
			{
				name: "whole meters",
				gear: &models.Gear{Name: "Shoe C", Distance: th.Ptr(1500.0)},
				want: "I was wearing Shoe C shoes. They've been used for a total of 1500 meters of running.",
			},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				detail := regularRun()
				detail.Gear = tt.gear
				got := FormatSummary(detail)

				if tt.want == "" {
					if strings.Contains(got, "I was wearing") {
						t.Errorf("expected no gear line, got:\n%s", got)
					}
					return
				}

				if strings.Split(got, "\n")[2] != tt.want {
					t.Errorf("expected gear line %q, got:\n%s", tt.want, got)
				}
			})
		}
	})

	t.Run("Missing Values Use Placeholder", func(t *testing.T) {
		detail := &models.ActivityDetail{SportType: models.SportRun}
		got := FormatSummary(detail)

		want := "Run Name: n/a, Start time: n/a, Total distance (m): n/a, Total time (s): n/a, Total elevation gain (m): n/a"
		if strings.Split(got, "\n")[1] != want {
			t.Errorf("expected %q, got:\n%s", want, got)
		}

		if !strings.HasSuffix(got, "Here are the splits:\n") {
			t.Errorf("expected header with trailing blank line and no splits, got %q", got)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		detail := structuredRun()
		if FormatSummary(detail) != FormatSummary(detail) {
			t.Error("expected identical output for identical input")
		}
	})
}

func TestExporters(t *testing.T) {
	t.Run("ExportSplitsCSV", func(t *testing.T) {
		t.Run("Laps", func(t *testing.T) {
			data, err := ExportSplitsCSV(structuredRun())
			if err != nil {
				t.Fatalf("ExportSplitsCSV failed: %v", err)
			}

			output := string(data)
			if !strings.HasPrefix(output, "Lap,Distance,MovingTime,AvgSpeed,AvgHR,AvgCadence\n") {
				t.Errorf("CSV missing lap headers, got: %s", output)
			}
			if !strings.Contains(output, "1,1000,240,4.17,165.2,88\n") {
				t.Errorf("CSV missing first lap, got: %s", output)
			}
			if !strings.Contains(output, "2,400,180,2.2,n/a,n/a\n") {
				t.Errorf("CSV missing second lap, got: %s", output)
			}
		})

		t.Run("Splits", func(t *testing.T) {
			data, err := ExportSplitsCSV(regularRun())
			if err != nil {
				t.Fatalf("ExportSplitsCSV failed: %v", err)
			}

			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) != 3 {
				t.Fatalf("expected header and 2 rows, got %d", len(lines))
			}
			if lines[0] != "Split,Distance,MovingTime,ElevationChange,AvgSpeed,AvgHR" {
				t.Errorf("unexpected headers %q", lines[0])
			}
			if lines[2] != "2,1000,330,-0.5,3.03,144.1" {
				t.Errorf("unexpected second row %q", lines[2])
			}
		})
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteTextExport", func(t *testing.T) {
		summary := FormatSummary(regularRun())

		t.Run("WithDefaultPath", func(t *testing.T) {
			t.Chdir(t.TempDir())

			path, err := WriteTextExport(summary, "")
			if err != nil {
				t.Fatalf("WriteTextExport failed: %v", err)
			}

			if path != "summary.txt" {
				t.Errorf("Expected 'summary.txt', got '%s'", path)
			}

			th.AssertFileExists(t, path)
			if content := th.MustReadFile(t, path); content != summary+"\n" {
				t.Errorf("file content mismatch, got:\n%s", content)
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "easy.txt")

			got, err := WriteTextExport(summary, path)
			if err != nil {
				t.Fatalf("WriteTextExport failed: %v", err)
			}
			if got != path {
				t.Errorf("Expected '%s', got '%s'", path, got)
			}
			th.AssertFileExists(t, path)
		})

		t.Run("Unwritable", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing", "summary.txt")

			if _, err := WriteTextExport(summary, path); err == nil {
				t.Error("expected error for missing directory")
			}
		})
	})

	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			t.Chdir(t.TempDir())

			path, err := WriteCSVExport(structuredRun(), "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if path != "42_splits.csv" {
				t.Errorf("Expected '42_splits.csv', got '%s'", path)
			}

			th.AssertFileExists(t, path)
			if content := th.MustReadFile(t, path); !strings.Contains(content, "Lap,Distance") {
				t.Errorf("CSV missing headers")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "sunday")

			path, err := WriteCSVExport(regularRun(), base)
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			if path != base+"_splits.csv" {
				t.Errorf("Expected '%s_splits.csv', got '%s'", base, path)
			}
			th.AssertFileExists(t, path)
		})
	})
}
