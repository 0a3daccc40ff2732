package render

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	reportdomain "github.com/fiscalbr/classtrib/internal/report/domain"
)

func TestPDFRenderer_Render(t *testing.T) {
	r := NewPDFRenderer(zaptest.NewLogger(t), "")

	out, err := r.Render(sampleInput())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestPDFRenderer_UserStamp(t *testing.T) {
	in := sampleInput()
	in.User = &reportdomain.RequestingUser{Name: "Maria Souza", TaxID: "123.456.789-00"}

	r := NewPDFRenderer(zaptest.NewLogger(t), "")
	out, err := r.Render(in)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestPDFRenderer_MissingLogoDegrades(t *testing.T) {
	r := NewPDFRenderer(zaptest.NewLogger(t), filepath.Join(t.TempDir(), "logo.png"))

	out, err := r.Render(sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestPDFRenderer_ManyRowsPaginate(t *testing.T) {
	in := sampleInput()
	base := in.Rows[0]
	in.Rows = nil
	for i := 0; i < 120; i++ {
		in.Rows = append(in.Rows, base)
	}

	r := NewPDFRenderer(zaptest.NewLogger(t), "")
	out, err := r.Render(in)
	require.NoError(t, err)
	assert.Greater(t, len(out), 2000)
}
