//go:build linux

package platform

import "os/exec"

func lookupSpeechCommand() (speechCommand, bool) {
	if path, err := exec.LookPath("spd-say"); err == nil {
		return speechCommand{path: path, args: spdSayArgs}, true
	}
	for _, name := range []string{"espeak-ng", "espeak"} {
		if path, err := exec.LookPath(name); err == nil {
			return speechCommand{path: path, args: plainArgs}, true
		}
	}
	return speechCommand{}, false
}
