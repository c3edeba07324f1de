// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mdiparam_test

import (
	"os"
	"testing"

	"github.com/js-arias/mdi/mdiparam"
)

func TestMdiParam(t *testing.T) {
	name := "tmp-mdi-parameters-for-test.tab"
	mp := mdiparam.New(name)
	testMP(t, mp, nil, name)

	mp.SetIterations(5_000)
	mp.SetBurnIn(0.5)
	mp.SetThin(10)
	mp.SetChains(2)
	mp.SetAlpha(0.5)
	mp.SetPhiShape(2)
	mp.SetPhiRate(1)
	mp.SetStep(0.5)
	mp.SetSeed(42)

	defer os.Remove(name)
	if err := mp.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := mdiparam.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testMP(t, np, mp, name)
}

func TestSetErrors(t *testing.T) {
	mp := mdiparam.New("params.tab")

	if err := mp.SetIterations(0); err == nil {
		t.Errorf("iterations: expecting error")
	}
	if err := mp.SetBurnIn(1); err == nil {
		t.Errorf("burn-in: expecting error")
	}
	if err := mp.SetBurnIn(-0.1); err == nil {
		t.Errorf("negative burn-in: expecting error")
	}
	if err := mp.SetThin(0); err == nil {
		t.Errorf("thin: expecting error")
	}
	if err := mp.SetChains(0); err == nil {
		t.Errorf("chains: expecting error")
	}
	if err := mp.SetAlpha(0); err == nil {
		t.Errorf("alpha: expecting error")
	}
	if err := mp.SetPhiShape(-1); err == nil {
		t.Errorf("shape: expecting error")
	}
	if err := mp.SetPhiRate(0); err == nil {
		t.Errorf("rate: expecting error")
	}
	if err := mp.SetStep(0); err == nil {
		t.Errorf("step: expecting error")
	}
}

func testMP(t testing.TB, mp, want *mdiparam.MP, name string) {
	t.Helper()

	if want == nil {
		want = mdiparam.New(name)
	}

	if mp.Name() != want.Name() {
		t.Errorf("name: got %q, want %q", mp.Name(), want.Name())
	}
	if mp.Iterations() != want.Iterations() {
		t.Errorf("iterations: got %d, want %d", mp.Iterations(), want.Iterations())
	}
	if mp.BurnIn() != want.BurnIn() {
		t.Errorf("burn-in: got %.6f, want %.6f", mp.BurnIn(), want.BurnIn())
	}
	if mp.Thin() != want.Thin() {
		t.Errorf("thin: got %d, want %d", mp.Thin(), want.Thin())
	}
	if mp.Chains() != want.Chains() {
		t.Errorf("chains: got %d, want %d", mp.Chains(), want.Chains())
	}
	if mp.Alpha() != want.Alpha() {
		t.Errorf("alpha: got %.6f, want %.6f", mp.Alpha(), want.Alpha())
	}
	if mp.PhiShape() != want.PhiShape() {
		t.Errorf("phi shape: got %.6f, want %.6f", mp.PhiShape(), want.PhiShape())
	}
	if mp.PhiRate() != want.PhiRate() {
		t.Errorf("phi rate: got %.6f, want %.6f", mp.PhiRate(), want.PhiRate())
	}
	if mp.Step() != want.Step() {
		t.Errorf("step: got %.6f, want %.6f", mp.Step(), want.Step())
	}
	if mp.Seed() != want.Seed() {
		t.Errorf("seed: got %d, want %d", mp.Seed(), want.Seed())
	}
}
