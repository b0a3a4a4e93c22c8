package util

import (
	"sync"

	"github.com/eapache/queue"
)

//Queue 线程安全的队列，事件循环用它接收其他goroutine投递的任务
type Queue struct {
	inner  *queue.Queue
	locker sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		inner: queue.New(),
	}
}

//Push 加
func (q *Queue) Push(item interface{}) int {
	q.locker.Lock()
	defer q.locker.Unlock()
	q.inner.Add(item)

	return q.inner.Length()
}

//Pop 弹
func (q *Queue) Pop() interface{} {
	q.locker.Lock()
	defer q.locker.Unlock()
	if q.inner.Length() <= 0 {
		return nil
	}

	return q.inner.Remove()
}

//Drain 一次性取出当前所有元素，之后push进来的留到下一次
func (q *Queue) Drain() []interface{} {
	q.locker.Lock()
	defer q.locker.Unlock()

	n := q.inner.Length()
	if n <= 0 {
		return nil
	}

	items := make([]interface{}, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, q.inner.Remove())
	}
	return items
}

//Len 获取长度
func (q *Queue) Len() int {
	q.locker.Lock()
	defer q.locker.Unlock()
	return q.inner.Length()
}
