package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

const header = "titulo,sub_titulo,autor,editora,ano,assunto\n"

func TestRepair(t *testing.T) {
	in := header +
		"ProgramaÃ§Ã£o,,Silva,Novatec,2019,ComputaÃ§Ã£o\n" +
		"Redes,,Tanenbaum,Pearson,2011,Redes\n"

	var out bytes.Buffer
	stats, err := repair(context.Background(), strings.NewReader(in), &out, "", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := header +
		"Programação,,Silva,Novatec,2019,Computação\n" +
		"Redes,,Tanenbaum,Pearson,2011,Redes\n"
	if out.String() != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out.String(), want)
	}
	if stats.rows != 2 || stats.repaired != 2 || stats.skipped != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestRepair_SkipsMalformedRows(t *testing.T) {
	in := header +
		"A,,B,C,2000,D\n" +
		"too,few\n" +
		"E,,F,G,2001,H\n"

	var out bytes.Buffer
	stats, err := repair(context.Background(), strings.NewReader(in), &out, "", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.rows != 2 || stats.skipped != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if strings.Contains(out.String(), "too,few") {
		t.Error("malformed row must be dropped")
	}
}

func TestRepair_Latin1Input(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String(header + "Educação,,Freire,Paz e Terra,1996,Pedagogia\n")
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if _, err := repair(context.Background(), strings.NewReader(raw), &out, "latin1", zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Educação") {
		t.Errorf("expected UTF-8 output, got %q", out.String())
	}
}

func TestRepair_UnsupportedEncoding(t *testing.T) {
	var out bytes.Buffer
	if _, err := repair(context.Background(), strings.NewReader(header), &out, "cp1252", zap.NewNop()); err == nil {
		t.Fatal("expected error for unsupported encoding")
	}
}

func TestRepair_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if _, err := repair(ctx, strings.NewReader(header), &out, "", zap.NewNop()); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestRun_RepairAndVerify(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.csv")
	content := header +
		"CÃ¡lculo,,Stewart,Cengage,2013,MatemÃ¡tica\n" +
		"CÃ¡lculo,,Stewart,Cengage,2014,MatemÃ¡tica\n" +
		",,Anônimo,,,\n" +
		"Redes,,Tanenbaum,Pearson,2011,Redes\n"
	if err := os.WriteFile(in, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	if err := run(context.Background(), config{in: in, out: out}, &stdout); err != nil {
		t.Fatalf("repair: %v", err)
	}
	if !strings.Contains(stdout.String(), "4 rows") {
		t.Errorf("unexpected summary: %s", stdout.String())
	}

	stdout.Reset()
	if err := run(context.Background(), config{in: out, verify: true}, &stdout); err != nil {
		t.Fatalf("verify: %v", err)
	}
	got := stdout.String()
	if !strings.Contains(got, " 1. Cálculo") || !strings.Contains(got, " 2. Redes") {
		t.Errorf("unexpected verify output:\n%s", got)
	}
	if strings.Contains(got, " 3.") {
		t.Errorf("duplicate and empty titles must be skipped:\n%s", got)
	}
	if !strings.Contains(got, "0 fields still double-encoded") {
		t.Errorf("repaired catalog must report no double-encoded fields:\n%s", got)
	}

	stdout.Reset()
	if err := run(context.Background(), config{in: in, verify: true}, &stdout); err != nil {
		t.Fatalf("verify raw input: %v", err)
	}
	if !strings.Contains(stdout.String(), "4 fields still double-encoded") {
		t.Errorf("raw input must report its double-encoded fields:\n%s", stdout.String())
	}
}

func TestRun_RequiresFlags(t *testing.T) {
	var stdout bytes.Buffer
	if err := run(context.Background(), config{}, &stdout); err == nil {
		t.Error("expected error without -in")
	}
	if err := run(context.Background(), config{in: "x.csv"}, &stdout); err == nil {
		t.Error("expected error without -out")
	}
}
