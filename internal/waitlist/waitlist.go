// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package waitlist implements a doubly linked FIFO list used to hold
// the waiters queued on a rendezvous channel.
//
// It is a generic derivative of container/list: the element payload is
// a type parameter instead of interface{}, which avoids boxing a
// waiter's value on every enqueue, and Remove is built to be the hot
// path (a waiter cancelling its own wait removes itself by element,
// not by scanning), rather than an afterthought bolted onto a list
// designed around Front/Back/iteration.
//
// 本包是 container/list 的泛型变体：用类型参数代替 interface{}，
// 避免每次入队时对等待者的值进行装箱；并且把 Remove 当作热路径设计
// （等待者取消等待时按元素直接删除，而不是线性扫描）。
package waitlist

// Element is a node of a List.
type Element[T any] struct {
	next, prev *Element[T]
	list       *List[T]

	// Value is the payload carried by this element.
	Value T
}

// Next returns the next list element or nil.
func (e *Element[T]) Next() *Element[T] {
	if p := e.next; e.list != nil && p != &e.list.root {
		return p
	}
	return nil
}

// Prev returns the previous list element or nil.
func (e *Element[T]) Prev() *Element[T] {
	if p := e.prev; e.list != nil && p != &e.list.root {
		return p
	}
	return nil
}

// List is a doubly linked list implemented as a ring with a sentinel
// root element, exactly as container/list does it. The zero value is
// an empty list ready to use: PushBack initialises it lazily. New
// returns an already-initialised list.
type List[T any] struct {
	root Element[T] // sentinel element; only &root, root.next, root.prev are used
	len  int
}

// New returns an initialized, empty list.
func New[T any]() *List[T] {
	l := new(List[T])
	return l.init()
}

func (l *List[T]) init() *List[T] {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.len = 0
	return l
}

func (l *List[T]) lazyInit() {
	if l.root.next == nil {
		l.init()
	}
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int { return l.len }

// Front returns the oldest (first-enqueued) element, or nil if the list is empty.
func (l *List[T]) Front() *Element[T] {
	if l.len == 0 {
		return nil
	}
	return l.root.next
}

// insertAfter inserts e after at and increments len.
func (l *List[T]) insertAfter(e, at *Element[T]) *Element[T] {
	n := at.next
	at.next = e
	e.prev = at
	e.next = n
	n.prev = e
	e.list = l
	l.len++
	return e
}

// PushBack appends v to the back of the list (the newest waiter) and
// returns the element, which callers retain so they can later call
// Remove in O(1) without scanning.
func (l *List[T]) PushBack(v T) *Element[T] {
	l.lazyInit()
	e := &Element[T]{Value: v}
	return l.insertAfter(e, l.root.prev)
}

// Remove detaches e from whichever list it belongs to and returns its
// value. It is a no-op returning the zero value if e has already been
// removed (or belongs to a different list), which lets callers race a
// drain (see Queue.Close) against a self-removal without double
// bookkeeping.
func (l *List[T]) Remove(e *Element[T]) (v T, removed bool) {
	if e.list != l {
		return v, false
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
	e.list = nil
	l.len--
	return e.Value, true
}

// PopFront removes and returns the oldest element's value. ok is false
// if the list was empty.
func (l *List[T]) PopFront() (v T, ok bool) {
	e := l.Front()
	if e == nil {
		return v, false
	}
	v, _ = l.Remove(e)
	return v, true
}

// Drain removes every element from the list, in FIFO order, invoking
// fn on each one's value right after it is detached. Used by Close to wake
// every waiter without completing their transfers.
func (l *List[T]) Drain(fn func(T)) {
	for e := l.Front(); e != nil; e = l.Front() {
		v, _ := l.Remove(e)
		fn(v)
	}
}
