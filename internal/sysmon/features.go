package sysmon

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// Features lists the CPU extensions that speed up limb arithmetic on this
// machine, in a fixed order.
func Features() []string {
	var out []string
	add := func(name string, ok bool) {
		if ok {
			out = append(out, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add("bmi2", cpu.X86.HasBMI2)
		add("adx", cpu.X86.HasADX)
		add("avx2", cpu.X86.HasAVX2)
		add("avx512f", cpu.X86.HasAVX512F)
	case "arm64":
		add("asimd", cpu.ARM64.HasASIMD)
		add("sve", cpu.ARM64.HasSVE)
	}
	return out
}

// FeatureLine renders the architecture and its features, e.g.
// "amd64 (bmi2 adx avx2)".
func FeatureLine() string {
	f := Features()
	if len(f) == 0 {
		return runtime.GOARCH
	}
	return runtime.GOARCH + " (" + strings.Join(f, " ") + ")"
}
