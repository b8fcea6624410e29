package shopping

import (
	"bytes"
	"fmt"

	"foodgram-backend/domain"

	"github.com/jung-kurt/gofpdf"
)

// Page geometry in points, portrait A4.
const (
	titleFontSize = 24
	itemFontSize  = 16
	titleX        = 200
	titleY        = 42
	itemX         = 75
	firstItemY    = 92
	lineHeight    = 25
	pageHeight    = 842
	bottomMargin  = 50
)

const documentTitle = "Shopping list"

// ShoppingListRenderer turns an aggregated shopping list into a PDF byte
// stream. It is a pure function of its input: no filesystem access, no other
// side effects. The glyph source is injected as raw TTF bytes; without one
// the built-in Helvetica core font is used.
type ShoppingListRenderer struct {
	font []byte
}

func NewShoppingListRenderer(font []byte) *ShoppingListRenderer {
	return &ShoppingListRenderer{font: font}
}

func (r *ShoppingListRenderer) Render(items []domain.ShoppingItem) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")

	family := "Helvetica"
	if len(r.font) > 0 {
		family = "ShoppingList"
		pdf.AddUTF8FontFromBytes(family, "", r.font)
	}

	pdf.AddPage()
	pdf.SetFont(family, "", titleFontSize)
	pdf.Text(titleX, titleY, documentTitle)
	pdf.SetFont(family, "", itemFontSize)

	y := float64(firstItemY)
	for pageIndex, page := range paginate(items) {
		if pageIndex > 0 {
			pdf.AddPage()
			y = firstItemY
		}
		for _, itemIndex := range page {
			item := items[itemIndex]
			pdf.Text(itemX, y, fmt.Sprintf("%d. %s - %d %s",
				itemIndex+1, item.Name, item.Amount, item.MeasurementUnit))
			y += lineHeight
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// paginate splits item indices into pages: a page breaks when the next line
// would land below the bottom margin. Separated from drawing so the layout is
// testable without parsing PDF output.
func paginate(items []domain.ShoppingItem) [][]int {
	pages := [][]int{{}}
	y := float64(firstItemY)
	for i := range items {
		if y > pageHeight-bottomMargin {
			pages = append(pages, []int{})
			y = firstItemY
		}
		last := len(pages) - 1
		pages[last] = append(pages[last], i)
		y += lineHeight
	}
	return pages
}
