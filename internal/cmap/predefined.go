/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package cmap

// NewIdentityCMap returns the predefined Identity-H or Identity-V CMap:
// two byte codes over the full range, CID equal to the code value.
func NewIdentityCMap(name string) *CMap {
	cmap := newCMap()
	cmap.name = name
	cmap.ctype = 1
	cmap.identity = true
	cmap.vertical = name == "Identity-V"
	cmap.systemInfo = CIDSystemInfo{
		Registry: "Adobe",
		Ordering: "Identity",
	}
	cmap.addCodespace(Codespace{NumBytes: 2, Low: 0, High: 0xffff})
	return cmap
}

// IsIdentityName returns true for the two identity CMap names.
func IsIdentityName(name string) bool {
	return name == "Identity-H" || name == "Identity-V"
}

// utf16CMaps lists the predefined CJK CMaps whose codes are UTF-16BE, i.e.
// two bytes per code for the ranges the renderer segments.
var utf16CMaps = map[string]struct{}{
	"UniJIS-UTF16-H": {}, "UniJIS-UTF16-V": {},
	"UniGB-UTF16-H": {}, "UniGB-UTF16-V": {},
	"UniCNS-UTF16-H": {}, "UniCNS-UTF16-V": {},
	"UniKS-UTF16-H": {}, "UniKS-UTF16-V": {},
}

// IsUTF16Name returns true if `name` is one of the predefined UTF-16 CMaps.
func IsUTF16Name(name string) bool {
	_, ok := utf16CMaps[name]
	return ok
}
