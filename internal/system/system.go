package system

import (
	"log"
	"runtime"
	"syscall"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// InitResourceLimits raises the open-file limit. Frame exports write one
// PNG pair per frame, which quickly runs into conservative defaults on
// macOS.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] could not read file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] could not raise file limit: %v", err)
	}
}

// Workers picks the frame-render parallelism for a canvas of the given
// dimensions: one worker per physical core, capped so that the working
// set of concurrent frames stays within a quarter of available memory.
// Each in-flight frame holds an RGBA canvas, a mask canvas, float output
// planes and transient transform copies; perFrameBytes approximates that.
func Workers(width, height int) int {
	cores, err := cpu.Counts(false)
	if err != nil || cores < 1 {
		cores = runtime.NumCPU()
	}
	if cores < 1 {
		cores = 1
	}

	workers := cores
	if vm, err := mem.VirtualMemory(); err == nil && vm.Available > 0 {
		perFrameBytes := uint64(width) * uint64(height) * 40
		if perFrameBytes > 0 {
			if byMem := int((vm.Available / 4) / perFrameBytes); byMem < workers {
				workers = byMem
			}
		}
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
