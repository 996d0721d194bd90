package view

import (
	"fmt"
	"jornada/jornada"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
)

var pdfGrid = []uint{2, 2, 4, 2, 2}

// ExportPDF writes the period report to path, one table per worked day.
func ExportPDF(path string, period jornada.Period, p jornada.PeriodSummary, generatedAt time.Time) error {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("jornada - work time report", props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(PeriodTitle(period, p.Range), props.Text{
					Top:   3,
					Style: consts.Normal,
					Align: consts.Center,
					Size:  12,
				})
			})
		})
	})

	average := "-"
	if avg, err := p.DailyAverage(); err == nil {
		average = jornada.FormatHours(avg)
	}
	m.TableList([]string{"Worked days", "Regular", "Extra", "Total", "Daily average"}, [][]string{{
		fmt.Sprint(p.WorkedDays),
		jornada.FormatHours(p.TotalRegular),
		jornada.FormatHours(p.TotalExtra),
		jornada.FormatHours(p.TotalHours),
		average,
	}}, tableProps([]uint{2, 2, 3, 2, 3}))

	headers := []string{"Start", "End", "Description", "Regular", "Extra"}
	for _, day := range p.Days {
		title := day.Date.Time().Format("Monday 02 January 2006")
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(title, props.Text{
					Top:   5,
					Style: consts.Bold,
					Size:  12,
					Align: consts.Left,
				})
			})
		})

		var rows [][]string
		for _, s := range day.Sessions {
			rows = append(rows, []string{
				s.StartAt.Format("15:04"),
				clockTime(s.EndAt),
				s.WorkDescription,
				jornada.FormatHours(s.RegularHours),
				jornada.FormatHours(s.ExtraHours),
			})
		}
		m.TableList(headers, rows, tableProps(pdfGrid))

		subtotal := fmt.Sprintf("Day total: %s", jornada.FormatHours(day.Total))
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(subtotal, props.Text{
					Style: consts.Bold,
					Align: consts.Right,
					Size:  10,
				})
			})
		})
	}

	m.Row(20, func() {
		m.Col(12, func() {
			m.Text("Generated "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Top:   10,
				Style: consts.Italic,
				Align: consts.Right,
				Size:  9,
			})
		})
	})

	if err := m.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing pdf %s: %w", path, err)
	}
	return nil
}

func tableProps(grid []uint) props.TableList {
	return props.TableList{
		HeaderProp: props.TableListContent{
			Size:      10,
			GridSizes: grid,
		},
		ContentProp: props.TableListContent{
			Size:      10,
			GridSizes: grid,
		},
		Align:                consts.Center,
		AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
		HeaderContentSpace:   1,
		Line:                 false,
	}
}
