package engine

import (
	"strconv"
	"testing"
)

func TestNodeStore_GetOrCreate_InitializesNode(t *testing.T) {
	store := NewNodeStore(strconv.Itoa)

	idx := store.GetOrCreate(7)
	node := store.Node(idx)

	if node.State != 7 {
		t.Errorf("Expected state 7, got %d", node.State)
	}
	if node.Cost != 0 {
		t.Errorf("Expected cost 0, got %d", node.Cost)
	}
	if node.Value != 0 {
		t.Errorf("Expected value 0, got %f", node.Value)
	}
	if node.Status != NodeStatusUnvisited {
		t.Errorf("Expected status unvisited, got %s", node.Status)
	}
	if node.Parent != NoParent {
		t.Errorf("Expected no parent, got %d", node.Parent)
	}
	if len(node.Successors) != 0 {
		t.Errorf("Expected no successors, got %v", node.Successors)
	}
}

func TestNodeStore_GetOrCreate_DeduplicatesByKey(t *testing.T) {
	store := NewNodeStore(strconv.Itoa)

	first := store.GetOrCreate(42)
	second := store.GetOrCreate(42)

	if first != second {
		t.Errorf("Expected identical index for equal states, got %d and %d", first, second)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 node, got %d", store.Len())
	}
}

func TestNodeStore_GetOrCreate_IdentityStableAcrossGrowth(t *testing.T) {
	store := NewNodeStore(strconv.Itoa)

	first := store.GetOrCreate(1)
	for i := 2; i <= 100; i++ {
		store.GetOrCreate(i)
	}

	if again := store.GetOrCreate(1); again != first {
		t.Errorf("Expected stable index %d after growth, got %d", first, again)
	}
	if store.Len() != 100 {
		t.Errorf("Expected 100 nodes, got %d", store.Len())
	}
}
