package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageInfo summarises a produced PDF.
type PageInfo struct {
	Pages  int
	Width  float64
	Height float64
}

var errNoMediaBox = errors.New("first page has no media box")

// Inspect re-reads a PDF and reports its page count and first page size.
func Inspect(data []byte) (PageInfo, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return PageInfo{}, fmt.Errorf("read pdf: %w", err)
	}
	info := PageInfo{Pages: r.NumPage()}
	if info.Pages == 0 {
		return info, errors.New("pdf has no pages")
	}

	box := inherited(r.Page(1).V, "MediaBox")
	if box.Len() != 4 {
		return info, errNoMediaBox
	}
	info.Width = box.Index(2).Float64() - box.Index(0).Float64()
	info.Height = box.Index(3).Float64() - box.Index(1).Float64()
	return info, nil
}

// inherited walks up the page tree until key is found.
func inherited(v pdf.Value, key string) pdf.Value {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		if found := v.Key(key); !found.IsNull() {
			return found
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

// Verify checks that data is a single page PDF of the artifact's size.
func Verify(a Artifact) error {
	info, err := Inspect(a.Data)
	if err != nil {
		return &Fault{Step: StepVerify, Err: err}
	}
	if info.Pages != 1 {
		return &Fault{Step: StepVerify, Err: fmt.Errorf("expected 1 page, got %d", info.Pages)}
	}
	if int(info.Width) != a.PageWidth || int(info.Height) != a.PageHeight {
		return &Fault{Step: StepVerify, Err: fmt.Errorf("page is %vx%v, bitmap is %dx%d", info.Width, info.Height, a.PageWidth, a.PageHeight)}
	}
	return nil
}
