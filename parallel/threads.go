package parallel

import "runtime"

import "github.com/klauspost/cpuid/v2"

// Threads returns the number of goroutines worth running for cpu bound work.
func Threads() int {
	n := cpuid.CPU.LogicalCores
	if n <= 0 || n > runtime.GOMAXPROCS(0) {
		n = runtime.GOMAXPROCS(0)
	}
	return n
}

// Describe reports the cpu in a single line for the program banner.
func Describe() string {
	var simd = "no avx"
	if cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ) {
		simd = "avx512"
	} else if cpuid.CPU.Supports(cpuid.AVX2, cpuid.FMA3) {
		simd = "avx2"
	}
	return cpuid.CPU.BrandName + " (" + simd + ")"
}
