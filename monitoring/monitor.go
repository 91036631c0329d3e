// Package monitoring turns a set of memory managers into a diagnostics
// server that external tooling can query.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/radiateos/vmcore/vmm"
)

// Monitor serves the state of registered memory managers over HTTP.
type Monitor struct {
	managers   []*vmm.Manager
	portNumber int
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterManager registers a manager to be monitored.
func (m *Monitor) RegisterManager(manager *vmm.Manager) {
	m.managers = append(m.managers, manager)
}

// StartServer starts the monitor as a web server. It returns the address
// the server listens on.
func (m *Monitor) StartServer() string {
	r := mux.NewRouter()
	r.HandleFunc("/api/managers", m.listManagers)
	r.HandleFunc("/api/meminfo/{name}", m.memInfo)
	r.HandleFunc("/api/stats/{name}", m.stats)
	r.HandleFunc("/api/pagetable/{name}", m.pageTable)
	r.HandleFunc("/api/manager/{name}", m.managerDetails)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	addr := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring memory managers with %s\n", addr)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	return addr
}

func (m *Monitor) listManagers(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, manager := range m.managers {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "%q", manager.Name())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) memInfo(w http.ResponseWriter, r *http.Request) {
	manager := m.findManagerOr404(w, mux.Vars(r)["name"])
	if manager == nil {
		return
	}

	bytes, err := json.Marshal(manager.MemInfo())
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) stats(w http.ResponseWriter, r *http.Request) {
	manager := m.findManagerOr404(w, mux.Vars(r)["name"])
	if manager == nil {
		return
	}

	bytes, err := json.Marshal(manager.Stats())
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

// pageTable serves the resident-page snapshot. The snapshot takes the page
// table's own lock only, so it responds even while an operation holds the
// manager's coarse lock.
func (m *Monitor) pageTable(w http.ResponseWriter, r *http.Request) {
	manager := m.findManagerOr404(w, mux.Vars(r)["name"])
	if manager == nil {
		return
	}

	bytes, err := json.Marshal(manager.PageTableSnapshot())
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) managerDetails(w http.ResponseWriter, r *http.Request) {
	manager := m.findManagerOr404(w, mux.Vars(r)["name"])
	if manager == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(manager)
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) findManagerOr404(
	w http.ResponseWriter,
	name string,
) *vmm.Manager {
	for _, manager := range m.managers {
		if manager.Name() == name {
			return manager
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Manager not found"))
	dieOnErr(err)

	return nil
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
