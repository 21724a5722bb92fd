package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
}

func newTestStore(t *testing.T, storage Storage) *Store {
	t.Helper()
	return NewStore(storage, nil, WithClock(fixedClock))
}

func TestStore_EnsureSessionCreatesDefault(t *testing.T) {
	storage := NewMemoryStorage()
	store := newTestStore(t, storage)

	require.NoError(t, store.EnsureSession("acme-2025"))

	sess := store.Session()
	require.NotNil(t, sess)
	assert.Equal(t, fixedClock(), sess.StartedAt)
	assert.Empty(t, sess.Answers)
	assert.Empty(t, sess.RepeatCounts)
	assert.Equal(t, ContactInfo{}, sess.ContactInfo)

	_, ok, err := storage.Get("survey-session:acme-2025")
	require.NoError(t, err)
	assert.True(t, ok, "fresh session should be persisted immediately")
}

func TestStore_RepeatCountNeverBelowOne(t *testing.T) {
	store := newTestStore(t, NewMemoryStorage())
	require.NoError(t, store.EnsureSession("s"))

	assert.Equal(t, 1, store.RepeatCount("purchases"))

	require.NoError(t, store.SetRepeatCount("purchases", 0))
	assert.Equal(t, 1, store.RepeatCount("purchases"))

	require.NoError(t, store.SetRepeatCount("purchases", -4))
	assert.Equal(t, 1, store.RepeatCount("purchases"))

	require.NoError(t, store.SetRepeatCount("purchases", 3))
	assert.Equal(t, 3, store.RepeatCount("purchases"))
}

func TestStore_AnswerRoundTripAcrossReload(t *testing.T) {
	storage := NewMemoryStorage()
	store := newTestStore(t, storage)
	require.NoError(t, store.EnsureSession("s"))

	multi := AnswerValue{Value: List("glass", "other")}.WithOther("ceramics")
	require.NoError(t, store.SetAnswer("q1", 0, AnswerValue{Value: Text("Acme")}))
	require.NoError(t, store.SetAnswer("q2", 2, multi))
	require.NoError(t, store.SetAnswer("q3", 0, AnswerValue{Value: List()}))

	reloaded := newTestStore(t, storage)
	require.NoError(t, reloaded.EnsureSession("s"))

	got, ok := reloaded.Answer("q1", 0)
	require.True(t, ok)
	assert.Equal(t, "Acme", got.Value.String())
	assert.False(t, got.Value.IsList())

	got, ok = reloaded.Answer("q2", 2)
	require.True(t, ok)
	assert.Equal(t, []string{"glass", "other"}, got.Value.Strings())
	assert.Equal(t, "ceramics", got.OtherText())

	got, ok = reloaded.Answer("q3", 0)
	require.True(t, ok)
	assert.True(t, got.Value.IsList())
	assert.True(t, got.Value.IsEmpty())

	first, _, _ := storage.Get(StorageKey("s"))
	require.NoError(t, reloaded.SetAnswer("q1", 0, AnswerValue{Value: Text("Acme")}))
	second, _, _ := storage.Get(StorageKey("s"))
	assert.JSONEq(t, string(first), string(second))
}

func TestStore_EnsureSessionIsNoOpForActiveSlug(t *testing.T) {
	storage := NewMemoryStorage()
	store := newTestStore(t, storage)
	require.NoError(t, store.EnsureSession("s"))
	require.NoError(t, store.SetAnswer("q1", 0, AnswerValue{Value: Text("kept")}))

	// Overwrite storage behind the store's back; an active slug is not reloaded.
	require.NoError(t, storage.Set(StorageKey("s"), []byte(`{"answers":{}}`)))
	require.NoError(t, store.EnsureSession("s"))

	got, ok := store.Answer("q1", 0)
	require.True(t, ok)
	assert.Equal(t, "kept", got.Value.String())
}

func TestStore_CorruptValueYieldsFreshSession(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(StorageKey("s"), []byte("{not json")))

	store := newTestStore(t, storage)
	require.NoError(t, store.EnsureSession("s"))

	sess := store.Session()
	require.NotNil(t, sess)
	assert.Empty(t, sess.Answers)
	assert.Equal(t, fixedClock(), sess.StartedAt)
}

func TestStore_SetContactInfoMergesPartialUpdates(t *testing.T) {
	store := newTestStore(t, NewMemoryStorage())
	require.NoError(t, store.EnsureSession("s"))

	name := "Dana"
	email := "dana@example.com"
	require.NoError(t, store.SetContactInfo(ContactInfoUpdate{ContactName: &name}))
	require.NoError(t, store.SetContactInfo(ContactInfoUpdate{ContactEmail: &email}))

	assert.Equal(t, ContactInfo{ContactName: "Dana", ContactEmail: "dana@example.com"}, store.Session().ContactInfo)
}

func TestStore_ClearSessionRemovesKey(t *testing.T) {
	storage := NewMemoryStorage()
	store := newTestStore(t, storage)
	require.NoError(t, store.EnsureSession("s"))

	require.NoError(t, store.ClearSession())

	_, ok, err := storage.Get(StorageKey("s"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, store.Session())
	assert.ErrorIs(t, store.SetAnswer("q", 0, AnswerValue{}), ErrNoActiveSession)
}

func TestFileStorage_PersistsAcrossStores(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	store := newTestStore(t, storage)
	require.NoError(t, store.EnsureSession("acme/2025"))
	require.NoError(t, store.SetRepeatCount("waste_streams", 4))

	again := newTestStore(t, storage)
	require.NoError(t, again.EnsureSession("acme/2025"))
	assert.Equal(t, 4, again.RepeatCount("waste_streams"))

	require.NoError(t, again.ClearSession())
	_, ok, err := storage.Get(StorageKey("acme/2025"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAnswerValue_DecodesBothShapes(t *testing.T) {
	var a AnswerValue
	require.NoError(t, json.Unmarshal([]byte(`{"value":"12.5"}`), &a))
	assert.Equal(t, "12.5", a.Value.String())
	assert.Nil(t, a.Other)

	require.NoError(t, json.Unmarshal([]byte(`{"value":["a","b"],"other":""}`), &a))
	assert.Equal(t, []string{"a", "b"}, a.Value.Strings())
	require.NotNil(t, a.Other)
	assert.Equal(t, "", *a.Other)

	assert.Error(t, json.Unmarshal([]byte(`{"value":12}`), &a))
}

func TestParseAnswerKey(t *testing.T) {
	id, idx, err := ParseAnswerKey("q:with:colons:3")
	require.NoError(t, err)
	assert.Equal(t, "q:with:colons", id)
	assert.Equal(t, 3, idx)

	_, _, err = ParseAnswerKey("q:3x")
	assert.Error(t, err)
	_, _, err = ParseAnswerKey("q")
	assert.Error(t, err)
}
