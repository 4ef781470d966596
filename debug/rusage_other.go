//go:build !unix

package debug

func maxRSS() uint64 { return 0 }
