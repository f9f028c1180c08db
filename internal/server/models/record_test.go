package models

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestRecordPatch_IsEmpty(t *testing.T) {
	assert.True(t, RecordPatch{}.IsEmpty())
	assert.False(t, RecordPatch{Description: strPtr("")}.IsEmpty())
}

func TestRecordPatch_ApplyChangesOnlySetFields(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := &Record{
		ID: "r1", OwnerID: "o1",
		FirstName: "Ana", LastName: "Gomez", NationalID: "30111222",
		CreatedAt: created,
	}

	RecordPatch{Description: strPtr("x")}.Apply(r)

	want := &Record{
		ID: "r1", OwnerID: "o1",
		FirstName: "Ana", LastName: "Gomez", NationalID: "30111222",
		Description: strPtr("x"),
		CreatedAt:   created,
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordPatch_ApplyCopiesDescription(t *testing.T) {
	d := "first"
	r := &Record{}
	RecordPatch{Description: &d}.Apply(r)
	d = "second"

	assert.Equal(t, "first", *r.Description)
}

func TestRecordPatch_BlankDescriptionClears(t *testing.T) {
	r := &Record{Description: strPtr("old")}
	RecordPatch{Description: strPtr("")}.Apply(r)

	assert.Nil(t, r.Description)
}
