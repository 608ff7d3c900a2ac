package hooking

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var (
	posA = &HookPos{Name: "A"}
	posB = &HookPos{Name: "B"}
)

var _ = Describe("HookableBase", func() {
	var base *HookableBase

	BeforeEach(func() {
		base = &HookableBase{}
	})

	It("should invoke hooks in registration order", func() {
		order := []int{}
		base.AcceptHook(HookFunc(func(HookCtx) { order = append(order, 1) }))
		base.AcceptHook(HookFunc(func(HookCtx) { order = append(order, 2) }))

		base.InvokeHook(HookCtx{Pos: posA})

		Expect(base.NumHooks()).To(Equal(2))
		Expect(order).To(Equal([]int{1, 2}))
	})

	It("should panic on duplicated hooks", func() {
		c := NewPosCounter()
		base.AcceptHook(c)

		Expect(func() { base.AcceptHook(c) }).To(Panic())
	})
})

var _ = Describe("PosCounter", func() {
	It("should count per position", func() {
		c := NewPosCounter()

		c.Func(HookCtx{Pos: posA})
		c.Func(HookCtx{Pos: posB})
		c.Func(HookCtx{Pos: posA})

		Expect(c.Count(posA)).To(Equal(uint64(2)))
		Expect(c.Count(posB)).To(Equal(uint64(1)))
		Expect(c.PosNames()).To(Equal([]string{"A", "B"}))
	})
})

var _ = Describe("LogHook", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = new(bytes.Buffer)
	})

	It("should log every position by default", func() {
		h := NewLogHook(log.New(buf, "", 0))

		h.Func(HookCtx{Pos: posA, Item: 42})

		Expect(buf.String()).To(Equal("A: 42\n"))
	})

	It("should filter positions", func() {
		h := NewLogHook(log.New(buf, "", 0), posB)

		h.Func(HookCtx{Pos: posA, Item: 1})
		h.Func(HookCtx{Pos: posB, Item: 2, Detail: "x"})

		Expect(buf.String()).To(Equal("B: 2 (x)\n"))
	})
})
