package draft

import (
	"math/rand"
	"testing"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/client/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, time.October, 14, 15, 4, 5, 0, time.UTC)
}

func TestNew_CreateModeWithTodayAsComingDate(t *testing.T) {
	d := New(fixedNow)

	assert.Equal(t, ModeCreate, d.Mode)
	assert.Equal(t, models.Date{Year: 2026, Month: time.October, Day: 14}, d.ComingDate)
	assert.Nil(t, d.FirmID)
	assert.Empty(t, d.KeepingServices)
}

func TestUpsertKeyedSelection_ZeroRemoves(t *testing.T) {
	d := New(fixedNow).
		UpsertKeyedSelection(Keeping, 5, 3).
		UpsertKeyedSelection(Keeping, 5, 0)

	assert.Empty(t, d.KeepingServices)
}

func TestUpsertKeyedSelection_ReplacesByFilterAndAppend(t *testing.T) {
	d := New(fixedNow).
		UpsertKeyedSelection(Working, 1, 2).
		UpsertKeyedSelection(Working, 2, 4).
		UpsertKeyedSelection(Working, 1, 9)

	assert.Equal(t, Keyed[WorkingService]{{ServiceID: 2, Quantity: 4}, {ServiceID: 1, Quantity: 9}}, d.WorkingServices)
}

func TestUpsertKeyedSelection_NegativeNeverStored(t *testing.T) {
	d := New(fixedNow).UpsertKeyedSelection(Keeping, 7, -1)
	assert.Empty(t, d.KeepingServices)
}

func TestUpsertKeyedSelection_ModesSingleInCreateManyInEdit(t *testing.T) {
	create := New(fixedNow).
		UpsertKeyedSelection(Modes, 1, 1).
		UpsertKeyedSelection(Modes, 2, 1)
	assert.Equal(t, []int64{2}, create.Modes.Keys())

	edit := FromRecord(models.ApplicationRecord{ID: 10}).
		UpsertKeyedSelection(Modes, 1, 1).
		UpsertKeyedSelection(Modes, 2, 1).
		UpsertKeyedSelection(Modes, 1, 1)
	assert.Equal(t, []int64{2, 1}, edit.Modes.Keys())

	edit = edit.UpsertKeyedSelection(Modes, 2, 0)
	assert.Equal(t, []int64{1}, edit.Modes.Keys())
}

func TestUpsertKeyedSelection_PropertyAtMostOneEntryPerKey(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		d := New(fixedNow)
		for step := 0; step < 30; step++ {
			key := int64(rng.Intn(4))
			qty := rng.Intn(7) - 2
			d = d.UpsertKeyedSelection(Keeping, key, qty)
		}

		seen := map[int64]bool{}
		for _, e := range d.KeepingServices {
			require.False(t, seen[e.ServiceID], "duplicate key %d", e.ServiceID)
			seen[e.ServiceID] = true
			require.Positive(t, e.Days)
		}
	}
}

func TestAppendRemove_PropertyLengthAndIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 200; run++ {
		d := New(fixedNow)
		var model []TransportEntry
		appends, removals := 0, 0

		for step := 0; step < 40; step++ {
			if len(model) == 0 || rng.Intn(3) > 0 {
				e := TransportEntry{TransportTypeID: int64(rng.Intn(3)), TransportNumber: "AB-" + string(rune('A'+rng.Intn(3)))}
				d = d.AppendEntry(e)
				model = append(model, e)
				appends++
				continue
			}
			i := rng.Intn(len(model))
			d = d.RemoveEntryAt(Transports, i)
			model = append(model[:i:i], model[i+1:]...)
			removals++
		}

		require.Len(t, d.Transports, appends-removals)
		require.Equal(t, model, []TransportEntry(d.Transports))
	}
}

func TestAppendEntry_AllowsDuplicates(t *testing.T) {
	e := TransportEntry{TransportTypeID: 1, TransportNumber: "01A123BC"}
	d := New(fixedNow).AppendEntry(e).AppendEntry(e)

	assert.Len(t, d.Transports, 2)
}

func TestRemoveEntryAt_OutOfRangeIsNoop(t *testing.T) {
	d := New(fixedNow).AppendEntry(ProductEntry{ProductID: 1, StorageID: 2, Quantity: 3})

	assert.True(t, Equal(d, d.RemoveEntryAt(Products, 5)))
	assert.True(t, Equal(d, d.RemoveEntryAt(Products, -1)))
}

func TestRemoveKeyedSelection_AbsentKeyIsValueEqual(t *testing.T) {
	d := New(fixedNow).UpsertKeyedSelection(Keeping, 1, 2)

	assert.True(t, Equal(d, d.RemoveKeyedSelection(Keeping, 99)))
	assert.True(t, Equal(d, d.RemoveKeyedSelection(Working, 1)))
}

func TestOperations_DoNotAliasPreviousValue(t *testing.T) {
	before := New(fixedNow).
		AppendEntry(PhotoEntry{Content: models.BinaryAttachment("a.jpg", []byte{1}), IsNewlyAdded: true}).
		UpsertKeyedSelection(Keeping, 1, 1)
	snapshot := before

	after := before.
		AppendEntry(PhotoEntry{Content: models.BinaryAttachment("b.jpg", []byte{2}), IsNewlyAdded: true}).
		RemoveEntryAt(Photos, 0).
		UpsertKeyedSelection(Keeping, 1, 5)

	assert.True(t, Equal(before, snapshot))
	assert.Len(t, before.Photos, 1)
	assert.Equal(t, "a.jpg", before.Photos[0].Content.FileName)
	assert.Equal(t, 1, before.KeepingServices[0].Days)
	assert.Equal(t, "b.jpg", after.Photos[0].Content.FileName)
}

func TestReplaceField(t *testing.T) {
	d := New(fixedNow).
		ReplaceField(FirmID(3)).
		ReplaceField(Brutto(decimal.NewNullDecimal(decimal.RequireFromString("10.5")))).
		ReplaceField(DeclarationNumber("D-77")).
		ReplaceField(DeclarationDate(models.Date{Year: 2026, Month: time.January, Day: 2})).
		ReplaceField(PaymentMethod(4))

	require.NotNil(t, d.FirmID)
	assert.Equal(t, int64(3), *d.FirmID)
	assert.Equal(t, "10.5", d.BruttoWeight.Decimal.String())
	assert.Equal(t, "D-77", d.DeclarationNumber)
	assert.Equal(t, "02.01.2026", d.DeclarationDate.Display())

	d = d.ReplaceField(NoFirm()).ReplaceField(NoDeclarationDate()).ReplaceField(NoPaymentMethod())
	assert.Nil(t, d.FirmID)
	assert.Nil(t, d.DeclarationDate)
	assert.Nil(t, d.PaymentMethodID)

	assert.True(t, Equal(d, d.ReplaceField(nil)))
}

func TestReduce_MatchesMethods(t *testing.T) {
	actions := []Action{
		{Kind: ActionReplaceField, Field: FirmID(1)},
		{Kind: ActionUpsertKeyed, Keyed: Keeping, Key: 5, Quantity: 3},
		{Kind: ActionUpsertKeyed, Keyed: Working, Key: 6, Quantity: 1},
		{Kind: ActionAppendEntry, Entry: ProductEntry{ProductID: 1, StorageID: 1, Quantity: 2}},
		{Kind: ActionAppendEntry, Entry: TransportEntry{TransportTypeID: 2, TransportNumber: "X"}},
		{Kind: ActionRemoveEntryAt, Positional: Products, Index: 0},
		{Kind: ActionRemoveKeyed, Keyed: Working, Key: 6},
		{Kind: ActionKind(99)},
	}

	d := New(fixedNow)
	for _, a := range actions {
		d = Reduce(d, a)
	}

	want := New(fixedNow).
		ReplaceField(FirmID(1)).
		UpsertKeyedSelection(Keeping, 5, 3).
		AppendEntry(TransportEntry{TransportTypeID: 2, TransportNumber: "X"})
	assert.True(t, Equal(want, d))
}

func TestFromRecord_HydratesEditDraft(t *testing.T) {
	firm := int64(7)
	rec := models.ApplicationRecord{
		ID:                42,
		FirmID:            &firm,
		Brutto:            decimal.NewNullDecimal(decimal.NewFromInt(100)),
		ComingDate:        models.Date{Year: 2024, Month: time.June, Day: 5},
		DeclarationNumber: "D-1",
		DeclarationDate:   models.Date{Year: 2024, Month: time.June, Day: 1},
		DeclarationFile:   "/media/d.pdf",
		KeepingServices:   []models.KeepingServiceRow{{ServiceID: 5, Day: 3}, {ServiceID: 6, Day: 0}},
		Modes:             []models.ModeRow{{ModeID: 1}, {ModeID: 2}},
		Photos:            []models.PhotoRow{{ID: 1, Image: "/media/p1.jpg"}},
	}

	d := FromRecord(rec)
	firm = 99

	assert.Equal(t, ModeEdit, d.Mode)
	assert.Equal(t, int64(42), d.ApplicationID)
	assert.Equal(t, int64(7), *d.FirmID)
	assert.Equal(t, "2024-06-05", d.ComingDate.Input())
	assert.Equal(t, "2024-06-01", d.DeclarationDate.Input())
	assert.Equal(t, models.AttachmentReference, d.DeclarationFile.Kind)
	assert.Equal(t, Keyed[KeepingService]{{ServiceID: 5, Days: 3}}, d.KeepingServices)
	assert.Equal(t, []int64{1, 2}, d.Modes.Keys())
	require.Len(t, d.Photos, 1)
	assert.False(t, d.Photos[0].IsNewlyAdded)
}

func TestEqual_NilAndEmptyCollections(t *testing.T) {
	a := New(fixedNow)
	b := a.UpsertKeyedSelection(Keeping, 1, 1).RemoveKeyedSelection(Keeping, 1)

	require.NotNil(t, b.KeepingServices)
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, a.UpsertKeyedSelection(Keeping, 1, 1)))
}

func TestSaved_CreateBecomesEditWithoutResending(t *testing.T) {
	created := New(fixedNow).
		ReplaceField(FirmID(3)).
		ReplaceField(DeclarationFile(models.BinaryAttachment("decl.pdf", []byte("pdf")))).
		AppendEntry(PhotoEntry{Content: models.BinaryAttachment("a.jpg", []byte{1}), IsNewlyAdded: true}).
		AppendEntry(PhotoEntry{Content: models.BinaryAttachment("", []byte{2}), IsNewlyAdded: true}).
		AppendEntry(TransportEntry{TransportTypeID: 2, TransportNumber: "AB"}).
		UpsertKeyedSelection(Modes, 7, 1)

	next := Saved(created, 55)

	assert.Equal(t, ModeEdit, next.Mode)
	assert.Equal(t, int64(55), next.ApplicationID)
	assert.Equal(t, models.AttachmentReference, next.DeclarationFile.Kind)
	require.Len(t, next.Photos, 2)
	for _, p := range next.Photos {
		assert.False(t, p.IsNewlyAdded)
		assert.False(t, p.Content.IsBinary())
	}
	assert.Empty(t, next.Modes)
	assert.Equal(t, created.Transports, next.Transports)

	p, err := BuildPayload(next)
	require.NoError(t, err)
	assert.False(t, p.Multipart())
	modes, ok := p.Get(FieldModes)
	require.True(t, ok)
	assert.Equal(t, "[]", modes)

	// the submitted value is untouched
	assert.Equal(t, ModeCreate, created.Mode)
	assert.True(t, created.Photos[0].IsNewlyAdded)
	assert.True(t, created.DeclarationFile.IsBinary())
	*next.FirmID = 9
	assert.Equal(t, int64(3), *created.FirmID)
}

func TestSaved_EditKeepsModes(t *testing.T) {
	edit := FromRecord(models.ApplicationRecord{ID: 9, Modes: []models.ModeRow{{ModeID: 1}, {ModeID: 2}}}).
		AppendEntry(PhotoEntry{Content: models.BinaryAttachment("b.jpg", []byte{3}), IsNewlyAdded: true})

	next := Saved(edit, 9)

	assert.Equal(t, []int64{1, 2}, next.Modes.Keys())
	require.Len(t, next.Photos, 1)
	assert.False(t, next.Photos[0].IsNewlyAdded)

	p, err := BuildPayload(next)
	require.NoError(t, err)
	assert.Empty(t, p.Files)
}
