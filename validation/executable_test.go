package validation

import "testing"

func TestIsWindowsExecutable(t *testing.T) {
	positives := []string{
		"notepad.exe",
		"NOTEPAD.EXE",
		"setup.Exe",
		`C:\Windows\regedit.exe`,
		"/home/me/installer.msc",
		"script.bat",
		"script.cmd",
		"macro.vbs",
		"tool.com",
	}
	for _, path := range positives {
		if !IsWindowsExecutable(path) {
			t.Errorf("IsWindowsExecutable(%q) = false, want true", path)
		}
	}

	negatives := []string{
		"/usr/bin/ls",
		"binary",
		"archive.tar.gz",
		"document.txt",
		"lib.dll",
		"exe",
		"",
	}
	for _, path := range negatives {
		if IsWindowsExecutable(path) {
			t.Errorf("IsWindowsExecutable(%q) = true, want false", path)
		}
	}
}
