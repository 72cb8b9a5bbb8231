package recognize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Korixo/demolition-tracker/internal/common"
)

type stubRunner struct {
	stdout []byte
	stderr []byte
	err    error

	gotName string
	gotArgs []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.gotName = name
	s.gotArgs = args
	return s.stdout, s.stderr, s.err
}

func TestTesseractRecognize(t *testing.T) {
	runner := &stubRunner{stdout: []byte("Building: Storage Silo\r\n\r\n\r\nOwner:  Sarah Parker\n")}
	ts := NewTesseract(TesseractConfig{WorkDir: t.TempDir(), Language: "eng", PSM: 6}, nil)
	ts.runner = runner

	res, err := ts.Recognize(context.Background(), []byte("fake image bytes"))
	require.NoError(t, err)

	assert.Equal(t, "Building: Storage Silo\n\nOwner: Sarah Parker", res.Text)
	assert.Nil(t, res.Fields)
	assert.Equal(t, "tesseract", runner.gotName)
	assert.Contains(t, runner.gotArgs, "stdout")
	assert.Contains(t, runner.gotArgs, "--psm")
}

func TestTesseractRecognizeFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("exit status 1"), stderr: []byte("could not read image")}
	ts := NewTesseract(TesseractConfig{WorkDir: t.TempDir()}, nil)
	ts.runner = runner

	_, err := ts.Recognize(context.Background(), []byte("not an image"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRecognition)
	assert.Contains(t, err.Error(), "could not read image")
}

func TestCleanText(t *testing.T) {
	in := "TOP\r\n-----\r\nBuilding:\tSilo   here\n\n\n\nend  "
	got := CleanText(in)
	assert.Equal(t, "TOP\n\nBuilding: Silo here\n\nend", got)
}
