package scaffold

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tripkit-labs/tripkit/internal/logger"
	"github.com/tripkit-labs/tripkit/internal/trip"
	"github.com/tripkit-labs/tripkit/internal/vault"
	mockvault "github.com/tripkit-labs/tripkit/internal/vault/mock"
)

const (
	folder        = "Trips/Lisbon-June"
	itineraryPath = "Trips/Lisbon-June/Trip Itinerary.md"
	packingPath   = "Trips/Lisbon-June/Packing List.md"
)

func lisbon(t *testing.T) trip.Location {
	t.Helper()
	loc, err := trip.Derive(trip.Request{Destination: "Lisbon", Month: "June"}, "Trips")
	require.NoError(t, err)
	return loc
}

func memVault(t *testing.T) (afero.Fs, *vault.FS) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return fs, vault.New(fs)
}

func statuses(reports []Report) []Status {
	out := make([]Status, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.Outcome.Status)
	}
	return out
}

func readFile(t *testing.T, fs afero.Fs, p string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, p)
	require.NoError(t, err)
	return string(data)
}

func TestScaffold_NoTemplates(t *testing.T) {
	fs, v := memVault(t)
	reports := New(v).Scaffold(context.Background(), lisbon(t), nil)

	want := []Report{
		{Label: FolderLabel, Path: folder, Kind: KindFolder, Outcome: Created()},
		{Label: trip.LabelItinerary, Path: itineraryPath, Kind: KindDocument, Outcome: Created()},
		{Label: trip.LabelPackingList, Path: packingPath, Kind: KindDocument, Outcome: Created()},
	}
	if diff := cmp.Diff(want, reports); diff != "" {
		t.Fatalf("reports mismatch (-want +got):\n%s", diff)
	}

	isDir, err := afero.IsDir(fs, folder)
	require.NoError(t, err)
	require.True(t, isDir)
	require.Equal(t, DefaultBody(trip.LabelItinerary), readFile(t, fs, itineraryPath))
	require.Equal(t, DefaultBody(trip.LabelPackingList), readFile(t, fs, packingPath))
}

func TestScaffold_SecondRunReportsAlreadyExists(t *testing.T) {
	fs, v := memVault(t)
	engine := New(v)
	loc := lisbon(t)

	first := engine.Scaffold(context.Background(), loc, nil)
	require.Equal(t, []Status{StatusCreated, StatusCreated, StatusCreated}, statuses(first))

	before := readFile(t, fs, itineraryPath)

	second := engine.Scaffold(context.Background(), loc, nil)
	require.Equal(t, []Status{StatusAlreadyExists, StatusAlreadyExists, StatusAlreadyExists}, statuses(second))
	require.Equal(t, before, readFile(t, fs, itineraryPath))
	for _, r := range second {
		require.Empty(t, r.Source)
		require.NoError(t, r.Outcome.Reason)
	}
}

func TestScaffold_ExistingContentIsNotTouched(t *testing.T) {
	fs, v := memVault(t)
	require.NoError(t, fs.MkdirAll(folder, 0o755))
	require.NoError(t, afero.WriteFile(fs, itineraryPath, []byte("my own plans\n"), 0o644))

	reports := New(v).Scaffold(context.Background(), lisbon(t), Templates{
		trip.LabelItinerary: {Path: "Templates/Trip Itinerary.md"},
	})

	require.Equal(t, []Status{StatusAlreadyExists, StatusAlreadyExists, StatusCreated}, statuses(reports))
	require.Equal(t, "my own plans\n", readFile(t, fs, itineraryPath))
}

func TestScaffold_TemplatePrecedence(t *testing.T) {
	fs, v := memVault(t)
	require.NoError(t, afero.WriteFile(fs, "Templates/Packing List.md", []byte("# Custom List\n- Passport"), 0o644))

	reports := New(v).Scaffold(context.Background(), lisbon(t), Templates{
		trip.LabelItinerary:   {Path: "Templates/Trip Itinerary.md"},
		trip.LabelPackingList: {Path: "Templates/Packing List.md"},
	})

	require.Equal(t, []Status{StatusCreated, StatusCreated, StatusCreated}, statuses(reports))
	require.Equal(t, "# Custom List\n- Passport", readFile(t, fs, packingPath))
	require.Equal(t, DefaultBody(trip.LabelItinerary), readFile(t, fs, itineraryPath))
	require.Empty(t, reports[1].Source)
	require.Equal(t, "Templates/Packing List.md", reports[2].Source)
}

func TestScaffold_TemplateFolderFallsBackToDefault(t *testing.T) {
	fs, v := memVault(t)
	require.NoError(t, fs.MkdirAll("Templates/Trip Itinerary.md", 0o755))

	reports := New(v).Scaffold(context.Background(), lisbon(t), Templates{
		trip.LabelItinerary: {Path: "Templates/Trip Itinerary.md"},
	})

	require.Equal(t, StatusCreated, reports[1].Outcome.Status)
	require.Equal(t, DefaultBody(trip.LabelItinerary), readFile(t, fs, itineraryPath))
}

func TestScaffold_EmptyTemplatePathMeansAbsent(t *testing.T) {
	fs, v := memVault(t)

	reports := New(v).Scaffold(context.Background(), lisbon(t), Templates{
		trip.LabelPackingList: {Path: "  "},
	})

	require.Equal(t, StatusCreated, reports[2].Outcome.Status)
	require.Equal(t, DefaultBody(trip.LabelPackingList), readFile(t, fs, packingPath))
}

func TestScaffold_EveryStepFailsOnReadOnlyVault(t *testing.T) {
	v := vault.New(afero.NewReadOnlyFs(afero.NewMemMapFs()))

	reports := New(v).Scaffold(context.Background(), lisbon(t), nil)

	require.Len(t, reports, 3)
	for _, r := range reports {
		require.Equal(t, StatusFailed, r.Outcome.Status, r.Label)
		require.Error(t, r.Outcome.Reason)
		require.Contains(t, r.Outcome.Reason.Error(), r.Path)
	}
}

func TestScaffold_WithDefaultBody(t *testing.T) {
	fs, v := memVault(t)

	New(v, WithDefaultBody(trip.LabelItinerary, "# Plan\n")).Scaffold(context.Background(), lisbon(t), nil)

	require.Equal(t, "# Plan\n", readFile(t, fs, itineraryPath))
	require.Equal(t, DefaultBody(trip.LabelPackingList), readFile(t, fs, packingPath))
}

func TestScaffold_FolderFailureDoesNotStopDocuments(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mockvault.NewMockVault(ctrl)
	denied := errors.New("permission denied")

	gomock.InOrder(
		m.EXPECT().Exists(gomock.Any(), folder).Return(false, nil),
		m.EXPECT().CreateFolder(gomock.Any(), folder).Return(denied),
		m.EXPECT().Exists(gomock.Any(), itineraryPath).Return(false, nil),
		m.EXPECT().CreateDocument(gomock.Any(), itineraryPath, DefaultBody(trip.LabelItinerary)).Return(os.ErrNotExist),
		m.EXPECT().Exists(gomock.Any(), packingPath).Return(false, nil),
		m.EXPECT().CreateDocument(gomock.Any(), packingPath, DefaultBody(trip.LabelPackingList)).Return(os.ErrNotExist),
	)

	reports := New(m).Scaffold(context.Background(), lisbon(t), nil)

	require.Equal(t, []Status{StatusFailed, StatusFailed, StatusFailed}, statuses(reports))
	require.ErrorIs(t, reports[0].Outcome.Reason, denied)
	require.ErrorIs(t, reports[1].Outcome.Reason, os.ErrNotExist)
}

func TestScaffold_LosingRaceSurfacesAsFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mockvault.NewMockVault(ctrl)

	m.EXPECT().Exists(gomock.Any(), folder).Return(true, nil)
	m.EXPECT().Exists(gomock.Any(), itineraryPath).Return(false, nil)
	m.EXPECT().CreateDocument(gomock.Any(), itineraryPath, gomock.Any()).Return(os.ErrExist)
	m.EXPECT().Exists(gomock.Any(), packingPath).Return(true, nil)

	reports := New(m).Scaffold(context.Background(), lisbon(t), nil)

	require.Equal(t, []Status{StatusAlreadyExists, StatusFailed, StatusAlreadyExists}, statuses(reports))
	require.ErrorIs(t, reports[1].Outcome.Reason, os.ErrExist)
}

func TestScaffold_ExistenceCheckErrorIsFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mockvault.NewMockVault(ctrl)
	ioErr := errors.New("i/o error")

	m.EXPECT().Exists(gomock.Any(), folder).Return(false, ioErr)
	m.EXPECT().CreateFolder(gomock.Any(), gomock.Any()).Times(0)
	m.EXPECT().Exists(gomock.Any(), itineraryPath).Return(true, nil)
	m.EXPECT().Exists(gomock.Any(), packingPath).Return(true, nil)

	reports := New(m).Scaffold(context.Background(), lisbon(t), nil)

	require.Equal(t, []Status{StatusFailed, StatusAlreadyExists, StatusAlreadyExists}, statuses(reports))
	require.ErrorIs(t, reports[0].Outcome.Reason, ioErr)
}

func TestScaffold_UnreadableTemplateDegradesToDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mockvault.NewMockVault(ctrl)
	tmpl := "Templates/Trip Itinerary.md"

	m.EXPECT().Exists(gomock.Any(), folder).Return(true, nil)
	m.EXPECT().Exists(gomock.Any(), itineraryPath).Return(false, nil)
	m.EXPECT().IsDocument(gomock.Any(), tmpl).Return(true, nil)
	m.EXPECT().ReadDocument(gomock.Any(), tmpl).Return("", errors.New("disk read error"))
	m.EXPECT().CreateDocument(gomock.Any(), itineraryPath, DefaultBody(trip.LabelItinerary)).Return(nil)
	m.EXPECT().Exists(gomock.Any(), packingPath).Return(true, nil)

	core, logs := observer.New(zapcore.WarnLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	reports := New(m).Scaffold(ctx, lisbon(t), Templates{trip.LabelItinerary: {Path: tmpl}})

	require.Equal(t, []Status{StatusAlreadyExists, StatusCreated, StatusAlreadyExists}, statuses(reports))
	require.Empty(t, reports[1].Source)
	require.Equal(t, 1, logs.FilterMessage("template unreadable, using default body").Len())
}

func TestScaffold_TemplateIsNotReadForExistingDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mockvault.NewMockVault(ctrl)

	m.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(true, nil).Times(3)

	reports := New(m).Scaffold(context.Background(), lisbon(t), Templates{
		trip.LabelItinerary:   {Path: "Templates/Trip Itinerary.md"},
		trip.LabelPackingList: {Path: "Templates/Packing List.md"},
	})

	require.Equal(t, []Status{StatusAlreadyExists, StatusAlreadyExists, StatusAlreadyExists}, statuses(reports))
}

func TestDefaultBody(t *testing.T) {
	itinerary := DefaultBody(trip.LabelItinerary)
	require.Contains(t, itinerary, "# Trip Itinerary")

	packing := DefaultBody(trip.LabelPackingList)
	require.Contains(t, packing, "# Packing List")

	require.NotEqual(t, itinerary, packing)
	require.Equal(t, "# Budget\n", DefaultBody("Budget"))
}

func TestSummarize(t *testing.T) {
	got := Summarize([]Report{
		{Outcome: Created()},
		{Outcome: AlreadyExists()},
		{Outcome: Failed(errors.New("x"))},
		{Outcome: Created()},
	})
	require.Equal(t, Summary{Created: 2, AlreadyExists: 1, Failed: 1}, got)
}

func TestOutcomeString(t *testing.T) {
	require.Equal(t, "created", Created().String())
	require.Equal(t, "already-exists", AlreadyExists().String())
	require.Equal(t, "failed: boom", Failed(errors.New("boom")).String())
	require.Equal(t, "folder", KindFolder.String())
	require.Equal(t, "document", KindDocument.String())
}
