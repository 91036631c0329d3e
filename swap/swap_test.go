package swap_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/radiateos/vmcore/swap"
	"github.com/radiateos/vmcore/vm"
)

var _ = Describe("Store", func() {
	var s *swap.Store

	BeforeEach(func() {
		s = swap.NewStore(2 * vm.PageSize)
	})

	It("should consume pages on read-in", func() {
		Expect(s.WriteOut(swap.Page{VPN: 1, Data: []byte{1}})).To(Succeed())

		page, found := s.ReadIn(1)
		Expect(found).To(BeTrue())
		Expect(page.Data).To(Equal([]byte{1}))

		_, found = s.ReadIn(1)
		Expect(found).To(BeFalse())
		Expect(s.Used()).To(Equal(uint64(0)))
	})

	It("should keep at most one page per VPN", func() {
		Expect(s.WriteOut(swap.Page{VPN: 1, Data: []byte{1}})).To(Succeed())
		Expect(s.WriteOut(swap.Page{VPN: 1, Data: []byte{2}})).To(Succeed())

		Expect(s.Len()).To(Equal(1))

		page, _ := s.ReadIn(1)
		Expect(page.Data).To(Equal([]byte{2}))
	})

	It("should track used bytes", func() {
		Expect(s.Used()).To(Equal(uint64(0)))

		_ = s.WriteOut(swap.Page{VPN: 1})
		_ = s.WriteOut(swap.Page{VPN: 2})

		Expect(s.Used()).To(Equal(2 * vm.PageSize))
	})

	It("should reject new pages when full", func() {
		Expect(s.WriteOut(swap.Page{VPN: 1})).To(Succeed())
		Expect(s.WriteOut(swap.Page{VPN: 2})).To(Succeed())

		err := s.WriteOut(swap.Page{VPN: 3})
		Expect(err).To(MatchError(swap.ErrSwapFull))
	})

	It("should overwrite an existing VPN even when full", func() {
		Expect(s.WriteOut(swap.Page{VPN: 1})).To(Succeed())
		Expect(s.WriteOut(swap.Page{VPN: 2})).To(Succeed())

		Expect(s.WriteOut(swap.Page{VPN: 2, Data: []byte{9}})).To(Succeed())

		page, _ := s.ReadIn(2)
		Expect(page.Data).To(Equal([]byte{9}))
	})

	It("should report containment without consuming", func() {
		_ = s.WriteOut(swap.Page{VPN: 1})

		Expect(s.Contains(1)).To(BeTrue())
		Expect(s.Contains(1)).To(BeTrue())
		Expect(s.Contains(2)).To(BeFalse())
	})
})
