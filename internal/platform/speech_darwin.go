//go:build darwin

package platform

import "os/exec"

func lookupSpeechCommand() (speechCommand, bool) {
	path, err := exec.LookPath("say")
	if err != nil {
		return speechCommand{}, false
	}
	return speechCommand{path: path, args: plainArgs}, true
}
