package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/flxzt/pxtogether/internal/bootstrap"
	"github.com/flxzt/pxtogether/internal/domain"
	"github.com/flxzt/pxtogether/internal/editor"
	"github.com/flxzt/pxtogether/internal/repository/mocks"
	"github.com/flxzt/pxtogether/internal/service"
)

func TestParseLine(t *testing.T) {
	cases := []struct {
		line string
		want directive
	}{
		{"down 5 7", pointer(editor.PointerDown, editor.ButtonPrimary, editor.Point{X: 5, Y: 7})},
		{"down 5 7 right", pointer(editor.PointerDown, editor.ButtonSecondary, editor.Point{X: 5, Y: 7})},
		{"move 1.5 2", pointer(editor.PointerMove, editor.ButtonNone, editor.Point{X: 1.5, Y: 2})},
		{"up secondary", pointer(editor.PointerUp, editor.ButtonSecondary, editor.Point{})},
		{"put 1 2 red record", directive{msg: service.PutPixelMsg{Column: 1, Row: 2, Pixel: domain.NewPixel(domain.PixelColor{R: 1, A: 1}), Record: true}}},
		{"record", directive{msg: service.RecordMsg{}}},
		{"UNDO", directive{msg: service.UndoMsg{}}},
		{"clear", directive{msg: service.ClearMsg{}}},
		{"color 'ff0000ff'", directive{msg: service.SetBrushMsg{Color: domain.PixelColor{R: 1, A: 1}}}},
		{`color "#0000ff"`, directive{msg: service.SetBrushMsg{Color: domain.PixelColor{B: 1, A: 1}}}},
		{"green 0.5", directive{msg: service.ChangeColorMsg{Channel: service.Green, Value: 0.5}}},
		{"open", directive{msg: service.OpenFileMsg{}}},
		{`save "my art.json"`, directive{msg: service.SaveFileMsg{Name: "my art.json"}}},
		{"export out.png", directive{msg: service.ExportMsg{Name: "out.png"}}},
		{"print", directive{print: true}},
		{"list", directive{list: true}},
		{"history art.json", directive{history: "art.json"}},
		{"history art.json 5", directive{history: "art.json", limit: 5}},
		{"wait  # sync", directive{wait: true}},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			d, ok, err := parseLine(tc.line)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tc.want, d)
		})
	}
}

func TestParseLine_SkipsBlankAndComments(t *testing.T) {
	for _, line := range []string{"", "   ", "# a comment"} {
		_, ok, err := parseLine(line)
		assert.NoError(t, err)
		assert.False(t, ok, "line %q", line)
	}
}

func TestParseLine_Errors(t *testing.T) {
	for _, line := range []string{
		"jump",
		"down 1",
		"down x 1",
		"down 1 1 middle",
		"put 1",
		"put 1 2 red later",
		"undo now",
		"color mauvish",
		"red lots",
		"save a b",
		"history",
		"history a.json zero",
		"history a.json 0",
		`save "unterminated`,
	} {
		_, _, err := parseLine(line)
		assert.Error(t, err, "line %q", line)
	}
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("White")
	require.NoError(t, err)
	assert.Equal(t, domain.PixelColor{R: 1, G: 1, B: 1, A: 1}, c)

	c, err = parseColor("transparent")
	require.NoError(t, err)
	assert.Equal(t, domain.Transparent, c)

	_, err = parseColor("#12345")
	assert.Error(t, err)
	_, err = parseColor("#zz0000")
	assert.Error(t, err)
}

func TestRunScript(t *testing.T) {
	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("STORE_DIR", t.TempDir())
	t.Setenv("GRID_ROWS", "3")
	t.Setenv("GRID_COLUMNS", "4")
	t.Setenv("CELL_SIZE", "10")
	t.Setenv("ARCHIVE_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	cfg, err := bootstrap.LoadConfig()
	require.NoError(t, err)
	app, err := bootstrap.NewApp(cfg)
	require.NoError(t, err)
	app.Start()
	defer app.Shutdown()

	script := strings.Join([]string{
		"# moves jump, so only the touched cells change",
		"down 5 5",
		"move 25 5",
		"up",
		"print",
		"undo",
		"print",
		"put 3 2 blue",
		"save",
		"wait",
		"clear",
		"open",
		"print",
		"export",
		"list",
	}, "\n")
	var out bytes.Buffer
	require.NoError(t, runScript(context.Background(), app, strings.NewReader(script), &out, true))

	assert.Equal(t, "#.#.\n....\n....\n"+"....\n....\n....\n"+"....\n....\n...#\n"+"grid.json\ngrid.png\n", out.String())
}

func TestRunScript_StrictStopsOnError(t *testing.T) {
	t.Setenv("STORE_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
	cfg, err := bootstrap.LoadConfig()
	require.NoError(t, err)
	app, err := bootstrap.NewApp(cfg)
	require.NoError(t, err)
	app.Start()
	defer app.Shutdown()

	var out bytes.Buffer
	err = runScript(context.Background(), app, strings.NewReader("record\nbogus\nprint\n"), &out, true)
	assert.ErrorContains(t, err, "line 2")
	assert.Empty(t, out.String())

	err = runScript(context.Background(), app, strings.NewReader("bogus\nwait\n"), &out, false)
	assert.NoError(t, err)
}

func newFileApp(t *testing.T) *bootstrap.App {
	t.Helper()
	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("STORE_DIR", t.TempDir())
	t.Setenv("ARCHIVE_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	cfg, err := bootstrap.LoadConfig()
	require.NoError(t, err)
	app, err := bootstrap.NewApp(cfg)
	require.NoError(t, err)
	app.Start()
	t.Cleanup(app.Shutdown)
	return app
}

func TestRunScript_History(t *testing.T) {
	app := newFileApp(t)
	repo := new(mocks.ArchiveRepository)
	app.ArchiveRepo = repo

	repo.On("ListArchives", mock.Anything, "art.json", 2).Return([]domain.Archive{
		{Name: "art.json", Size: 120, SavedAt: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)},
		{Name: "art.json", Size: 98, SavedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
	}, nil).Once()

	var out bytes.Buffer
	require.NoError(t, runScript(context.Background(), app, strings.NewReader("history art.json 2\n"), &out, true))

	assert.Equal(t, "2024-05-02T09:00:00Z 120\n2024-05-01T09:00:00Z 98\n", out.String())
	repo.AssertExpectations(t)
}

func TestRunScript_HistoryWithoutArchive(t *testing.T) {
	app := newFileApp(t)

	var out bytes.Buffer
	err := runScript(context.Background(), app, strings.NewReader("history art.json\n"), &out, true)
	assert.ErrorIs(t, err, errArchiveDisabled)
}
