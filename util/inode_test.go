package util

import "testing"

func TestInodeForPath(t *testing.T) {
	paths := []string{
		"/",
		"kharris/ALS/2023_01_23/snoopy/Pin1/screen",
		"kharris/ALS/2023_01_23/snoopy/Pin1/screen/Pin1_0_00001.cbf",
		"",
	}
	for _, p := range paths {
		first := InodeForPath(p)
		if first <= RootInode {
			t.Errorf("InodeForPath(%q) = %d, must be above the root inode", p, first)
		}
		if again := InodeForPath(p); again != first {
			t.Errorf("InodeForPath(%q) not stable: %d then %d", p, first, again)
		}
	}
}
