/*
   Copyright 2019 Joseph Cumines

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package blackboard

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/vmihailenco/msgpack/v5"
)

func TestScopeLookupFallsThroughToParent(t *testing.T) {
	parent := New()
	parent.Set("a", 1)
	child := NewScope(parent)
	child.Set("b", 2)

	if v, ok := child.Get("a"); !ok || v != 1 {
		t.Fatalf("expected child to see parent's key, got %v, %v", v, ok)
	}
	if v, ok := child.Get("b"); !ok || v != 2 {
		t.Fatalf("expected child to see its own key, got %v, %v", v, ok)
	}
	if _, ok := parent.Get("b"); ok {
		t.Fatal("expected parent not to see child's key")
	}
}

func TestScopeWriteShadowsParentWithoutMutatingIt(t *testing.T) {
	parent := New()
	parent.Set("a", "parent-value")
	child := NewScope(parent)
	child.Set("a", "child-value")

	if v, _ := child.Get("a"); v != "child-value" {
		t.Fatalf("child.Get(a) = %v, want child-value", v)
	}
	if v, _ := parent.Get("a"); v != "parent-value" {
		t.Fatalf("parent.Get(a) = %v, want parent-value (must not be mutated)", v)
	}
}

func TestDeleteOnlyAffectsLocalScope(t *testing.T) {
	parent := New()
	parent.Set("a", 1)
	child := NewScope(parent)
	child.Delete("a")

	if _, ok := child.Get("a"); !ok {
		t.Fatal("expected delete on child scope not to shadow parent's value")
	}
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	parent := New()
	parent.Set("a", 1)
	child := NewScope(parent)
	child.Set("b", 2)

	clone := child.Clone()
	clone.Set("a", 99)

	if v, _ := child.Get("a"); v != 1 {
		t.Fatalf("original child.Get(a) = %v, want 1 (clone must not share state)", v)
	}
	if v, _ := clone.Get("a"); v != 99 {
		t.Fatalf("clone.Get(a) = %v, want 99", v)
	}
	if v, ok := clone.Get("b"); !ok || v != 2 {
		t.Fatalf("expected clone to carry over flattened parent values, got %v, %v", v, ok)
	}
}

func TestFingerprintChangesWithContent(t *testing.T) {
	b := New()
	f1, err := b.Fingerprint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.Set("a", 1)
	f2, err := b.Fingerprint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f1 == f2 {
		t.Fatal("expected fingerprint to change after a write")
	}

	b.Set("a", 1)
	f3, err := b.Fingerprint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f2 != f3 {
		t.Fatal("expected fingerprint to be stable for identical content")
	}
}

func TestToMsgPackRoundTripsFlattenedContent(t *testing.T) {
	parent := New()
	parent.Set("a", "hello")
	child := NewScope(parent)
	child.Set("b", "world")

	data, err := child.ToMsgPack()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]string
	if err := msgpack.Unmarshal(data, &got); err != nil {
		t.Fatalf("unexpected error decoding round trip: %v", err)
	}
	want := map[string]string{"a": "hello", "b": "world"}
	if diff := deep.Equal(want, got); diff != nil {
		t.Fatal(diff)
	}
}

func TestHasAndKeys(t *testing.T) {
	parent := New()
	parent.Set("a", 1)
	child := NewScope(parent)
	child.Set("b", 2)

	if !child.Has("a") || !child.Has("b") {
		t.Fatal("expected Has to see both local and inherited keys")
	}
	if child.Has("c") {
		t.Fatal("expected Has to be false for an unset key")
	}

	keys := child.Keys()
	if len(keys) != 2 {
		t.Fatalf("Keys() = %v, want 2 entries", keys)
	}
}
