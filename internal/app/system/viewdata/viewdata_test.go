package viewdata

import (
	"net/http/httptest"
	"testing"
)

func TestNewBaseVM(t *testing.T) {
	SetSiteName("RoboHack 2026")
	defer SetSiteName(DefaultSiteName)

	r := httptest.NewRequest("GET", "/apply?step=2", nil)
	vm := NewBaseVM(r, "Apply", "/")

	if vm.SiteName != "RoboHack 2026" {
		t.Errorf("SiteName = %q", vm.SiteName)
	}
	if vm.Title != "Apply" {
		t.Errorf("Title = %q", vm.Title)
	}
	if vm.BackURL == "" {
		t.Error("expected a back URL")
	}
	if vm.CSRFField != CSRFFieldName {
		t.Errorf("CSRFField = %q", vm.CSRFField)
	}
}

func TestSetSiteName_IgnoresBlank(t *testing.T) {
	SetSiteName("X")
	SetSiteName("")
	defer SetSiteName(DefaultSiteName)
	if got := SiteName(); got != "X" {
		t.Errorf("SiteName = %q, want X", got)
	}
}
