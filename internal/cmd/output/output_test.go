package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type widget struct {
	Name  string `json:"name"  yaml:"name"`
	Ready bool   `json:"ready" yaml:"ready"`
}

type widgetPrinter struct{}

func (widgetPrinter) Header(w io.Writer, count int) {
	_, _ = fmt.Fprintf(w, "%d widget(s):\n", count)
}

func (widgetPrinter) Item(w io.Writer, elem widget) error {
	_, err := fmt.Fprintf(w, "  %s ready=%t\n", elem.Name, elem.Ready)
	return err
}

func (widgetPrinter) Footer(_ io.Writer, _ int) {}

func TestJSONHandler(t *testing.T) {
	t.Parallel()

	t.Run("results", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := NewJSONHandler[widget](&buf, 2)

		err := h.HandleResults(widget{Name: "a", Ready: true}, widget{Name: "b"})
		require.NoError(t, err)
		require.Contains(t, buf.String(), `"results"`)
		require.Contains(t, buf.String(), `"name": "a"`)
	})

	t.Run("single result", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := NewJSONHandler[widget](&buf, 2)

		require.NoError(t, h.HandleResult(widget{Name: "a"}))
		require.Contains(t, buf.String(), `"result"`)
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := NewJSONHandler[widget](&buf, 0)

		require.NoError(t, h.HandleError(fmt.Errorf("boom")))
		require.JSONEq(t, `{"error":"boom"}`, strings.TrimSpace(buf.String()))
	})
}

func TestYAMLHandler(t *testing.T) {
	t.Parallel()

	t.Run("results", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := NewYAMLHandler[widget](&buf, 2)

		err := h.HandleResults(widget{Name: "a", Ready: true})
		require.NoError(t, err)
		require.Contains(t, buf.String(), "results:")
		require.Contains(t, buf.String(), "name: a")
		require.Contains(t, buf.String(), "ready: true")
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := NewYAMLHandler[widget](&buf, 2)

		require.NoError(t, h.HandleError(fmt.Errorf("boom")))
		require.Equal(t, "error: boom\n", buf.String())
	})
}

func TestTextHandler(t *testing.T) {
	t.Parallel()

	t.Run("results", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := NewTextHandler[widget](&buf, widgetPrinter{})

		err := h.HandleResults(widget{Name: "a", Ready: true}, widget{Name: "b"})
		require.NoError(t, err)
		require.Equal(t, "2 widget(s):\n  a ready=true\n  b ready=false\n", buf.String())
	})

	t.Run("empty results", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := NewTextHandler[widget](&buf, widgetPrinter{})

		require.NoError(t, h.HandleResults())
		require.Equal(t, "No items found\n", buf.String())
	})

	t.Run("error passes through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := NewTextHandler[widget](&buf, widgetPrinter{})

		boom := fmt.Errorf("boom")
		require.Equal(t, boom, h.HandleError(boom))
		require.Empty(t, buf.String())
	})
}
