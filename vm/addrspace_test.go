package vm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/radiateos/vmcore/vm"
)

var _ = Describe("AddressSpace", func() {
	var as *vm.AddressSpace

	BeforeEach(func() {
		as = vm.NewAddressSpace()
	})

	It("should never hand out the guard page", func() {
		addr, ok := as.FindFreeRegion(1)
		Expect(ok).To(BeTrue())
		Expect(addr).To(Equal(vm.PageSize))
	})

	It("should place regions one after another", func() {
		a, _ := as.FindFreeRegion(2)
		b, _ := as.FindFreeRegion(3)

		Expect(b).To(Equal(a + 2*vm.PageSize))
	})

	It("should reuse a freed gap with first fit", func() {
		a, _ := as.FindFreeRegion(2)
		_, _ = as.FindFreeRegion(3)

		as.FreeRegion(a)

		c, _ := as.FindFreeRegion(1)
		Expect(c).To(Equal(a))
	})

	It("should skip gaps that are too small", func() {
		a, _ := as.FindFreeRegion(1)
		_, _ = as.FindFreeRegion(1)

		as.FreeRegion(a)

		c, _ := as.FindFreeRegion(2)
		Expect(c).To(Equal(a + 2*vm.PageSize))
	})

	It("should fail when the address space is exhausted", func() {
		_, ok := as.FindFreeRegion(vm.NumPages)
		Expect(ok).To(BeFalse())

		_, ok = as.FindFreeRegion(vm.NumPages - 1)
		Expect(ok).To(BeTrue())
	})

	It("should reject page counts beyond the address space", func() {
		_, ok := as.FindFreeRegion(uint64(1) << 52)
		Expect(ok).To(BeFalse())

		_, ok = as.FindFreeRegion(^uint64(0))
		Expect(ok).To(BeFalse())

		Expect(as.AllocatedPages()).To(Equal(uint64(0)))
	})

	It("should panic on a zero page count", func() {
		Expect(func() { as.FindFreeRegion(0) }).To(Panic())
	})

	It("should track allocated pages", func() {
		_, _ = as.FindFreeRegion(2)
		_, _ = as.FindFreeRegion(3)

		Expect(as.AllocatedPages()).To(Equal(uint64(5)))
	})
})
