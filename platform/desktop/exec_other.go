//go:build !unix

package desktop

import "os"

func executable(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
