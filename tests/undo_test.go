package tests

import (
	"context"
	"testing"

	"stocktrack/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndoWithEmptyLedger(t *testing.T) {
	s := newStack()

	resp, err := s.undo.Undo(context.Background(), "manager")
	require.NoError(t, err)
	assert.Equal(t, "Nothing to undo", resp.Message)
	assert.Empty(t, resp.ExternalIDs)
}

func TestUndoAddDeletesProduct(t *testing.T) {
	s := newStack()
	ctx := context.Background()

	_, err := s.catalog.Add(ctx, "manager", addRequest("Widget", "W1", 10, "Aisle 3"))
	require.NoError(t, err)

	resp, err := s.undo.Undo(ctx, "manager")
	require.NoError(t, err)
	assert.Equal(t, "Undid add of 'Widget'", resp.Message)
	assert.Equal(t, []string{"W1"}, resp.ExternalIDs)

	_, err = s.products.FindByExternalID(ctx, "W1")
	require.Error(t, err)

	// The entry is consumed: a second undo finds nothing.
	resp, err = s.undo.Undo(ctx, "manager")
	require.NoError(t, err)
	assert.Equal(t, "Nothing to undo", resp.Message)
}

func TestUndoRemoveRestoresProduct(t *testing.T) {
	s := newStack()
	ctx := context.Background()

	_, err := s.catalog.Add(ctx, "manager", addRequest("Widget", "W1", 10, "Aisle 3"))
	require.NoError(t, err)
	_, err = s.catalog.Remove(ctx, "manager", "W1")
	require.NoError(t, err)

	resp, err := s.undo.Undo(ctx, "manager")
	require.NoError(t, err)
	assert.Equal(t, "Undid removal of 'Widget'", resp.Message)

	p, err := s.products.FindByExternalID(ctx, "W1")
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, 10, p.Quantity)
	assert.Equal(t, "Aisle 3", p.Location)

	// The remove entry is gone; the original add entry is now latest.
	entry, err := s.ledger.Latest(ctx, "manager")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "add", entry.Action)
}

// If the external id was retaken after the removal, undo must not clobber
// the newer product: recreation is skipped but the entry is still consumed.
func TestUndoRemoveSkipsOnIDConflict(t *testing.T) {
	s := newStack()
	ctx := context.Background()

	_, err := s.catalog.Add(ctx, "manager", addRequest("Widget", "W1", 10, "Aisle 3"))
	require.NoError(t, err)
	_, err = s.catalog.Remove(ctx, "manager", "W1")
	require.NoError(t, err)

	// Someone else takes W1 outside this user's ledger.
	seedProduct(s.products, "Newer Widget", "W1", 99, "Aisle 7")

	resp, err := s.undo.Undo(ctx, "manager")
	require.NoError(t, err)
	assert.Equal(t, "Undid removal of 'Widget'", resp.Message)

	p, err := s.products.FindByExternalID(ctx, "W1")
	require.NoError(t, err)
	assert.Equal(t, "Newer Widget", p.Name)
	assert.Equal(t, 99, p.Quantity)

	// Entry consumed even though nothing was recreated.
	entry, err := s.ledger.Latest(ctx, "manager")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "add", entry.Action)
}

func TestUndoEditRestoresSnapshot(t *testing.T) {
	s := newStack()
	ctx := context.Background()

	_, err := s.catalog.Add(ctx, "manager", addRequest("Widget", "W1", 10, "Aisle 3"))
	require.NoError(t, err)
	_, err = s.catalog.Edit(ctx, "manager", "W1", dto.EditProductRequest{
		Name:        "Widget Mk2",
		ExternalID:  "W1",
		Description: "revised",
		Quantity:    3,
		Location:    "Aisle 4",
	})
	require.NoError(t, err)

	resp, err := s.undo.Undo(ctx, "manager")
	require.NoError(t, err)
	assert.Equal(t, "Undid edit of 'Widget'", resp.Message)

	p, err := s.products.FindByExternalID(ctx, "W1")
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, "", p.Description)
	assert.Equal(t, 10, p.Quantity)
	assert.Equal(t, "Aisle 3", p.Location)
}

// An edit that renamed the product leaves the undo with nothing to find
// under the snapshot's external id. The restore is a no-op, but the entry
// is consumed so the chain keeps moving.
func TestUndoEditAfterRenameIsNoOp(t *testing.T) {
	s := newStack()
	ctx := context.Background()

	_, err := s.catalog.Add(ctx, "manager", addRequest("Widget", "W1", 10, "Aisle 3"))
	require.NoError(t, err)
	_, err = s.catalog.Edit(ctx, "manager", "W1", dto.EditProductRequest{
		Name:       "Widget",
		ExternalID: "W2",
		Quantity:   10,
		Location:   "Aisle 3",
	})
	require.NoError(t, err)

	resp, err := s.undo.Undo(ctx, "manager")
	require.NoError(t, err)
	assert.Equal(t, "Nothing to restore for 'Widget'", resp.Message)

	// The renamed product is untouched.
	p, err := s.products.FindByExternalID(ctx, "W2")
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)
	_, err = s.products.FindByExternalID(ctx, "W1")
	require.Error(t, err)

	entry, err := s.ledger.Latest(ctx, "manager")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "add", entry.Action)
}

func TestUndoBulkImportRemovesWholeGroup(t *testing.T) {
	s := newStack()
	ctx := context.Background()

	// W1 exists already, so the import merges into it. W2 and W3 are new.
	seedProduct(s.products, "Widget", "W1", 10, "Aisle 3")
	resp, err := s.importer.Import(ctx, "manager", []string{
		"Widget Two,W2,second,5,A2",
		"Widget,W1,merge,3,A1",
		"Widget Three,W3,third,7,A3",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, 1, resp.Merged)

	undoResp, err := s.undo.Undo(ctx, "manager")
	require.NoError(t, err)
	assert.Equal(t, "Undid bulk import of 2 products", undoResp.Message)
	assert.ElementsMatch(t, []string{"W2", "W3"}, undoResp.ExternalIDs)

	// The created products are gone; the merge is not reversed.
	_, err = s.products.FindByExternalID(ctx, "W2")
	require.Error(t, err)
	_, err = s.products.FindByExternalID(ctx, "W3")
	require.Error(t, err)
	p, err := s.products.FindByExternalID(ctx, "W1")
	require.NoError(t, err)
	assert.Equal(t, 13, p.Quantity)

	// One undo consumed the whole group.
	again, err := s.undo.Undo(ctx, "manager")
	require.NoError(t, err)
	assert.Equal(t, "Nothing to undo", again.Message)
}

func TestUndoOnlyOwnLedger(t *testing.T) {
	s := newStack()
	ctx := context.Background()

	_, err := s.catalog.Add(ctx, "alice", addRequest("Widget", "W1", 1, "A1"))
	require.NoError(t, err)

	// Bob has no history; Alice's entry is not his to undo.
	resp, err := s.undo.Undo(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "Nothing to undo", resp.Message)

	_, err = s.products.FindByExternalID(ctx, "W1")
	require.NoError(t, err)
}
