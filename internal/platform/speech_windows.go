//go:build windows

package platform

import "os/exec"

func lookupSpeechCommand() (speechCommand, bool) {
	path, err := exec.LookPath("powershell.exe")
	if err != nil {
		return speechCommand{}, false
	}
	return speechCommand{path: path, args: powerShellArgs}, true
}
