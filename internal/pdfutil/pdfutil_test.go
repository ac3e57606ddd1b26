package pdfutil

import "testing"

func TestPrepare_RejectsNonPDF(t *testing.T) {
	if _, err := Prepare([]byte("this is not a pdf"), 5); err == nil {
		t.Fatal("expected error for non-PDF input")
	}
}

func TestPageCount_RejectsGarbage(t *testing.T) {
	if _, err := PageCount([]byte{0x00, 0x01, 0x02}); err == nil {
		t.Fatal("expected error for garbage input")
	}
}
