package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/radiateos/vmcore/datarecording"
	"github.com/radiateos/vmcore/monitoring"
	"github.com/radiateos/vmcore/vm"
	"github.com/radiateos/vmcore/vmm"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a synthetic paging workload against a memory manager.",
	Run:   runWorkload,
}

func init() {
	runCmd.Flags().Uint64("frames", 0,
		"number of physical frames (default from VMCORE_FRAMES or 1024)")
	runCmd.Flags().Int("tlb", 0,
		"translation cache capacity (default from VMCORE_TLB or 64)")
	runCmd.Flags().Uint64("swap-pages", 0,
		"swap store capacity in pages (default from VMCORE_SWAP or 4096)")
	runCmd.Flags().String("policy", "",
		"replacement policy, lru or clock (default from VMCORE_POLICY)")
	runCmd.Flags().Int("ops", 10000, "number of workload operations")
	runCmd.Flags().Int("port", 0,
		"diagnostics server port (default from VMCORE_PORT; 0 disables)")
	runCmd.Flags().Bool("open", false,
		"open the diagnostics server in a browser")
	runCmd.Flags().String("record", "",
		"record statistics snapshots into the named SQLite database")
	runCmd.Flags().Int64("seed", 1, "workload random seed")

	rootCmd.AddCommand(runCmd)
}

// envOr reads a VMCORE_* variable, falling back to a default. A .env file in
// the working directory is honored.
func envOr(key string, fallback uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ignoring %s=%q: %s\n", key, v, err)
		return fallback
	}

	return n
}

func buildManager(cmd *cobra.Command) *vmm.Manager {
	_ = godotenv.Load()

	frames, _ := cmd.Flags().GetUint64("frames")
	if frames == 0 {
		frames = envOr("VMCORE_FRAMES", 1024)
	}

	tlbCap, _ := cmd.Flags().GetInt("tlb")
	if tlbCap == 0 {
		tlbCap = int(envOr("VMCORE_TLB", 64))
	}

	swapPages, _ := cmd.Flags().GetUint64("swap-pages")
	if swapPages == 0 {
		swapPages = envOr("VMCORE_SWAP", 4096)
	}

	policy, _ := cmd.Flags().GetString("policy")
	if policy == "" {
		policy = os.Getenv("VMCORE_POLICY")
	}
	if policy == "" {
		policy = "lru"
	}

	return vmm.MakeBuilder().
		WithNumFrames(frames).
		WithTLBCapacity(tlbCap).
		WithSwapCapacity(swapPages * vm.PageSize).
		WithReplacementAlgorithm(policy).
		Build("Manager")
}

func runWorkload(cmd *cobra.Command, _ []string) {
	manager := buildManager(cmd)

	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = int(envOr("VMCORE_PORT", 0))
	}
	if port != 0 {
		monitor := monitoring.NewMonitor().WithPortNumber(port)
		monitor.RegisterManager(manager)
		addr := monitor.StartServer()

		if open, _ := cmd.Flags().GetBool("open"); open {
			if err := browser.OpenURL(addr); err != nil {
				fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", err)
			}
		}
	}

	var trace *datarecording.MemTrace
	if record, _ := cmd.Flags().GetString("record"); record != "" {
		trace = datarecording.NewMemTrace(datarecording.New(record))
	}

	ops, _ := cmd.Flags().GetInt("ops")
	seed, _ := cmd.Flags().GetInt64("seed")
	workload(manager, trace, ops, seed)

	if trace != nil {
		trace.Close()
	}

	info := manager.MemInfo()
	fmt.Printf("free physical: %d / %d bytes\n",
		info.FreePhysical, info.TotalPhysical)
	fmt.Printf("swap used: %d / %d bytes\n", info.SwapUsed, info.SwapTotal)
	fmt.Printf("page faults: %d (major %d)\n",
		info.Statistics.PageFaults, info.Statistics.MajorPageFaults)
	fmt.Printf("tlb: %d hits, %d misses\n",
		info.Statistics.TLBHits, info.Statistics.TLBMisses)
	fmt.Printf("swap: %d in, %d out\n",
		info.Statistics.SwapIns, info.Statistics.SwapOuts)

	atexit.Exit(0)
}

// workload allocates, touches, and frees regions at random, keeping enough
// live regions around to push the manager into eviction.
func workload(
	manager *vmm.Manager,
	trace *datarecording.MemTrace,
	ops int,
	seed int64,
) {
	rng := rand.New(rand.NewSource(seed))

	type region struct {
		addr uint64
		size uint64
	}
	var live []region

	for i := 0; i < ops; i++ {
		switch {
		case len(live) < 8 || rng.Intn(4) > 0:
			size := (1 + uint64(rng.Intn(16))) * vm.PageSize
			addr, err := manager.Allocate(size, vmm.ProtRead|vmm.ProtWrite)
			if err != nil {
				continue
			}

			if err := manager.Write(addr, []byte("workload")); err == nil {
				_, _ = manager.Read(addr, 8)
			}
			live = append(live, region{addr: addr, size: size})
		default:
			victim := rng.Intn(len(live))
			manager.Deallocate(live[victim].addr, live[victim].size)
			live = append(live[:victim], live[victim+1:]...)
		}

		if trace != nil && i%100 == 0 {
			trace.Snapshot(manager)
		}
	}

	for _, r := range live {
		manager.Deallocate(r.addr, r.size)
	}
	manager.Flush()
}
