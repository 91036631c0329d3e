package monitoring

import (
	"encoding/json"
	"net/http/httptest"

	"github.com/gorilla/mux"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/radiateos/vmcore/vm"
	"github.com/radiateos/vmcore/vmm"
)

var _ = Describe("Monitor", func() {
	var (
		m       *Monitor
		manager *vmm.Manager
	)

	BeforeEach(func() {
		m = NewMonitor()
		manager = vmm.MakeBuilder().WithNumFrames(4).Build("MMU")
		m.RegisterManager(manager)
	})

	It("should register managers", func() {
		Expect(m.managers).To(HaveLen(1))
	})

	It("should list manager names", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/managers", nil)

		m.listManagers(w, r)

		Expect(w.Body.String()).To(Equal(`["MMU"]`))
	})

	It("should serve the memory info", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/meminfo/MMU", nil)
		r = mux.SetURLVars(r, map[string]string{"name": "MMU"})

		m.memInfo(w, r)

		var info vmm.MemInfo
		Expect(json.Unmarshal(w.Body.Bytes(), &info)).To(Succeed())
		Expect(info.TotalPhysical).To(Equal(4 * vm.PageSize))
	})

	It("should serve the page table snapshot", func() {
		addr, err := manager.Allocate(4096, vmm.ProtRead|vmm.ProtWrite)
		Expect(err).ToNot(HaveOccurred())

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/pagetable/MMU", nil)
		r = mux.SetURLVars(r, map[string]string{"name": "MMU"})

		m.pageTable(w, r)

		var pages []vm.Page
		Expect(json.Unmarshal(w.Body.Bytes(), &pages)).To(Succeed())
		Expect(pages).To(HaveLen(1))
		Expect(pages[0].VPN).To(Equal(vm.VPN(addr)))
	})

	It("should 404 on an unknown manager", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/meminfo/Nope", nil)
		r = mux.SetURLVars(r, map[string]string{"name": "Nope"})

		m.memInfo(w, r)

		Expect(w.Code).To(Equal(404))
	})
})
