// Package pdf implementa la generación del extracto de cuenta KodBank.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: KodBank  │  EXTRACTO DE CUENTA + Fecha de emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TITULAR: Username / UID / Email / Tel                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SALDO DISPONIBLE                                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Últimos inicios de sesión registrados               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Leyenda informativa                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/kodbank-api/internal/application/statement"
	"github.com/jhoicas/kodbank-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 13, Green: 71, Blue: 161}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ statement.StatementPDFGenerator = (*MarotoStatementGenerator)(nil)

// MarotoStatementGenerator implementa statement.StatementPDFGenerator usando Maroto v2.
type MarotoStatementGenerator struct{}

// NewMarotoStatementGenerator construye el generador.
func NewMarotoStatementGenerator() *MarotoStatementGenerator { return &MarotoStatementGenerator{} }

// GenerateStatementPDF genera el PDF del extracto y devuelve sus bytes.
func (g *MarotoStatementGenerator) GenerateStatementPDF(
	_ context.Context,
	user *entity.User,
	sessions []*entity.UserToken,
	issuedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Extracto de cuenta KodBank", true).
		WithAuthor("KodBank", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(issuedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(holderRow(user))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(balanceRow(user))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sessionsHeaderRow())
	for _, r := range sessionRows(sessions) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar extracto: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: marca (izq) y título + fecha de emisión (der).
func headerRow(issuedAt time.Time) core.Row {
	return row.New(18).Add(
		col.New(6).Add(
			text.New("KodBank", props.Text{
				Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 2,
			}),
			text.New("Banca digital de demostración", props.Text{
				Size: 8, Top: 11, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New("EXTRACTO DE CUENTA", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 2,
			}),
			text.New("Emitido: "+issuedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// holderRow: datos del titular.
func holderRow(user *entity.User) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("TITULAR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(user.Username, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 6,
			}),
			text.New(fmt.Sprintf("Cuenta: %s   |   Email: %s   |   Tel: %s   |   Cliente desde: %s",
				user.UID, user.Email, user.Phone, user.CreatedAt.Format("02/01/2006"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// balanceRow: saldo disponible en grande.
func balanceRow(user *entity.User) core.Row {
	return row.New(16).Add(
		col.New(6).Add(
			text.New("SALDO DISPONIBLE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 4,
			}),
		),
		col.New(6).Add(
			text.New("$"+user.Balance.StringFixed(2)+" COP", props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Right,
				Color: colorPrimary, Top: 3,
			}),
		),
	)
}

// sessionsHeaderRow: cabecera de la tabla de sesiones.
func sessionsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Inicio de sesión", 5, align.Left),
		h("Referencia", 6, align.Left),
	)
}

// sessionRows: una fila por sesión registrada.
func sessionRows(sessions []*entity.UserToken) []core.Row {
	if len(sessions) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Sin sesiones registradas.", props.Text{
				Size: 8, Color: colorGray, Top: 1, Left: 1,
			}),
		))}
	}
	result := make([]core.Row, 0, len(sessions))
	for i, s := range sessions {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", i+1),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				s.CreatedAt.Format("02/01/2006 15:04:05"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(6).Add(text.New(
				s.ID,
				props.Text{Size: 7, Align: align.Left, Top: 1, Left: 1, Color: colorGray},
			)),
		))
	}
	return result
}

// footerRow: leyenda informativa.
func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"KodBank es una aplicación de demostración. Los saldos y movimientos "+
				"de este extracto no representan dinero real.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}
