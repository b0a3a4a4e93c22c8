package common

import "strings"

//Mask 事件掩码，可读、可写或者二者都有
type Mask int

const (
	None     Mask = 0
	Readable Mask = 1 << (iota - 1)
	Writable

	All = Readable | Writable
)

//Has 是否包含m中的所有事件
func (mask Mask) Has(m Mask) bool {
	return m != None && mask&m == m
}

//Valid 去掉不认识的位
func (mask Mask) Valid() Mask {
	return mask & All
}

func (mask Mask) String() string {
	if mask.Valid() == None {
		return "NONE"
	}

	parts := make([]string, 0, 2)
	if mask&Readable != 0 {
		parts = append(parts, "READABLE")
	}
	if mask&Writable != 0 {
		parts = append(parts, "WRITABLE")
	}
	return strings.Join(parts, "|")
}

//Fired 一次wait之后就绪的fd，以及触发的事件
type Fired struct {
	Fd   int
	Mask Mask
}
