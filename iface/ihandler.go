package iface

import "github.com/ikilobyte/cevent/common"

//IHandler fd上绑定的回调，由事件循环调用，multiplexer本身不会调用
type IHandler interface {
	Handle(fd int, fired common.Mask)
}
