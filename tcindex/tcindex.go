// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tcindex implements spec.md §4.1's tuple/index algebra: pure
// functions over fixed-length sequences of axis positions that the three
// primitive kernels use to validate and derive the permutations named in
// invariants I1-I5. There is no teacher file in the pack dedicated to
// einsum-style index algebra; this package is grounded on the
// combinatorial-permutation conventions exercised by gonum's combin
// package tests (combin_test.go's intSosMatch helper and permutation
// generators) adapted to the fixed small-int-slice shape this domain
// needs, rather than combin's general k-combination/permutation
// enumeration (which this domain never needs: every permutation here has
// a size fixed by the operands involved).
package tcindex

import "github.com/tensorcontract/tcontract/tcerr"

// List is an ordered sequence of index labels (axis positions into some
// flat factor list, or arbitrary comparable symbols at the compiler
// layer). tcindex operates generically over any comparable label type.
type List[T comparable] []T

// Setdiff returns a with the first occurrence of each element of b
// removed, preserving a's order. It assumes b is a sub-multiset of a;
// spec.md §4.1 leaves this precondition to the caller.
func Setdiff[T comparable](a, b List[T]) List[T] {
	remaining := make(map[T]int, len(b))
	for _, v := range b {
		remaining[v]++
	}
	out := make(List[T], 0, len(a))
	for _, v := range a {
		if remaining[v] > 0 {
			remaining[v]--
			continue
		}
		out = append(out, v)
	}
	return out
}

// UniquePairs assumes every element of src appears exactly twice and
// returns the deduplicated sequence, preserving first-occurrence order.
func UniquePairs[T comparable](src List[T]) List[T] {
	seen := make(map[T]bool, len(src))
	out := make(List[T], 0, len(src)/2+1)
	for _, v := range src {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// AddPermutation returns the permutation π such that IA[π[k]] == IC[k] for
// all k, i.e. π[k] is the position in IA of IC's k-th label. It panics
// with tcerr.ErrInvalidIndices if IA and IC are not equal as multisets or
// differ in length (spec.md invariant I1).
func AddPermutation[T comparable](IA, IC List[T]) []int {
	if len(IA) != len(IC) {
		panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "add: index lists differ in length (%d vs %d)", len(IA), len(IC)))
	}
	used := make([]bool, len(IA))
	perm := make([]int, len(IC))
	for k, label := range IC {
		pos := -1
		for i, v := range IA {
			if !used[i] && v == label {
				pos = i
				break
			}
		}
		if pos < 0 {
			panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "add: label %v in destination has no matching source axis", label))
		}
		used[pos] = true
		perm[k] = pos
	}
	return perm
}

// TraceLayout returns, for a trace of A down to the free labels IC: the
// permutation π of the free axes of A (in the order they'd naturally
// enumerate to IC), and the first/second occurrence position lists of
// every label that is NOT in IC (the traced pairs), ordered by the first
// occurrence of each traced label. Per invariant I2, every label of A
// that is not in IC must occur in A exactly twice, and IC's labels must
// each occur exactly once, and be distinct.
func TraceLayout[T comparable](IA, IC List[T]) (perm, first, second []int) {
	seenCount := make(map[T]int, len(IA))
	for _, v := range IA {
		seenCount[v]++
	}
	icSet := make(map[T]bool, len(IC))
	for _, v := range IC {
		if icSet[v] {
			panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "trace: destination label %v repeated", v))
		}
		icSet[v] = true
		if seenCount[v] != 1 {
			panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "trace: destination label %v must occur exactly once in source, occurs %d times", v, seenCount[v]))
		}
	}
	for v, n := range seenCount {
		if !icSet[v] && n != 2 {
			panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "trace: traced label %v must occur exactly twice in source, occurs %d times", v, n))
		}
	}

	// perm[k] is IC[k]'s position in IA.
	used := make([]bool, len(IA))
	perm = make([]int, len(IC))
	for k, label := range IC {
		for i, v := range IA {
			if !used[i] && v == label {
				used[i] = true
				perm[k] = i
				break
			}
		}
	}

	firstPos := make(map[T]int, len(IA))
	secondPos := make(map[T]int, len(IA))
	var order []T
	for i, v := range IA {
		if icSet[v] {
			continue
		}
		if _, ok := firstPos[v]; !ok {
			firstPos[v] = i
			order = append(order, v)
			continue
		}
		secondPos[v] = i
	}
	for _, v := range order {
		first = append(first, firstPos[v])
		second = append(second, secondPos[v])
	}
	return perm, first, second
}

// ContractOpenContracted splits IA into the positions matching oind (the
// open labels) and those matching cind (the labels
// contracted against the other operand), preserving the order given by
// the oind/cind label lists themselves. It panics with
// tcerr.ErrInvalidIndices if a requested label cannot be found.
func ContractOpenContracted[T comparable](IA List[T], oind, cind List[T]) (oindPos, cindPos []int) {
	oindPos = positionsOf(IA, oind)
	cindPos = positionsOf(IA, cind)
	if len(oindPos)+len(cindPos) != len(IA) {
		panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "contract: open+contracted axes (%d) do not cover operand rank (%d)", len(oindPos)+len(cindPos), len(IA)))
	}
	return oindPos, cindPos
}

func positionsOf[T comparable](IA List[T], labels List[T]) []int {
	used := make([]bool, len(IA))
	out := make([]int, len(labels))
	for k, label := range labels {
		pos := -1
		for i, v := range IA {
			if !used[i] && v == label {
				pos = i
				break
			}
		}
		if pos < 0 {
			panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "label %v not found among remaining axes", label))
		}
		used[pos] = true
		out[k] = pos
	}
	return out
}

// ContractOutputPermutation returns the permutation mapping the
// concatenation (oindA labels..., oindB labels...) onto IC, i.e. perm[k]
// is the position in that concatenation of IC's k-th label.
func ContractOutputPermutation[T comparable](oindA, oindB, IC List[T]) []int {
	concat := make(List[T], 0, len(oindA)+len(oindB))
	concat = append(concat, oindA...)
	concat = append(concat, oindB...)
	if len(concat) != len(IC) {
		panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "contract: open axis count (%d) does not match destination rank (%d)", len(concat), len(IC)))
	}
	return AddPermutation(concat, IC)
}

// CountOccurrences reports how many times each label of src occurs, for
// callers validating invariant I5 (no index occurs more than twice).
func CountOccurrences[T comparable](src List[T]) map[T]int {
	counts := make(map[T]int, len(src))
	for _, v := range src {
		counts[v]++
	}
	return counts
}

// CheckAtMostTwice panics with tcerr.ErrInvalidIndices if any label in src
// occurs more than twice (invariant I5).
func CheckAtMostTwice[T comparable](src List[T]) {
	for label, n := range CountOccurrences(src) {
		if n > 2 {
			panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "label %v occurs %d times, more than twice", label, n))
		}
	}
}

// Inverse returns the inverse of permutation perm: inv[perm[k]] == k.
func Inverse(perm []int) []int {
	inv := make([]int, len(perm))
	for k, p := range perm {
		inv[p] = k
	}
	return inv
}

// Identity returns the identity permutation of length n.
func Identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
