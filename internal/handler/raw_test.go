package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/feral-file/marketplace-indexer/internal/domain"
)

type unencodableEvent struct{}

func (unencodableEvent) Category() domain.EventCategory { return domain.EventCategoryMint }
func (unencodableEvent) Hash() string                   { return "0xbad" }
func (unencodableEvent) MarshalJSON() ([]byte, error)   { return nil, errors.New("boom") }

func TestRawJSON(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	raw := rawJSON(log, &domain.MintData{TxHash: "0xabc", TokenID: "1"})
	assert.Contains(t, string(raw), "0xabc")
	assert.Zero(t, logs.Len())

	assert.Nil(t, rawJSON(log, unencodableEvent{}))
	entries := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "0xbad", entries[0].ContextMap()["txHash"])
	assert.Contains(t, entries[0].ContextMap()["error"], "boom")
}
