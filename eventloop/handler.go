package eventloop

import "github.com/ikilobyte/cevent/common"

//HandlerFunc 普通函数作为回调，注意func不能比较，Binding里保存的回调不要拿来做==判断
type HandlerFunc func(fd int, fired common.Mask)

func (f HandlerFunc) Handle(fd int, fired common.Mask) {
	f(fd, fired)
}
