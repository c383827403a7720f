// Package monitoring turns a running simulation into a small web server so
// that long cache-model runs can be inspected from outside: live stats,
// state dumps, resource usage, and CPU profiles.
//
// The monitor does not synchronize with the driver. Endpoints that read a
// registered model observe live mutable state; drivers that want consistent
// snapshots must pause between accesses, the same contract that applies to
// any other reader of a cache instance.
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

	// Enable profiling.
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/cachesim/mem/cachesim"
)

// A Model is a simulation structure that the monitor can observe.
type Model interface {
	Name() string
	ComputeStats()
	ZeroStatsCounters()
}

// Monitor exposes registered cache models over HTTP.
type Monitor struct {
	models     []Model
	portNumber int
	openInWeb  bool
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// rejected and replaced with a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowserLaunch makes StartServer open the monitor page in the default
// browser.
func (m *Monitor) WithBrowserLaunch() *Monitor {
	m.openInWeb = true
	return m
}

// RegisterModel registers a model to be monitored.
func (m *Monitor) RegisterModel(model Model) {
	m.models = append(m.models, model)
}

// StartServer starts the monitor as a web server.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()
	r.HandleFunc("/", m.index)
	r.HandleFunc("/api/list_models", m.listModels)
	r.HandleFunc("/api/stats/{name}", m.modelStats)
	r.HandleFunc("/api/model/{name}", m.modelDetails)
	r.HandleFunc("/api/reset/{name}", m.resetModel)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	if m.openInWeb {
		err = browser.OpenURL(url)
		dieOnErr(err)
	}
}

func (m *Monitor) index(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, `<html><body><h1>cachesim monitor</h1><ul>`+
		`<li><a href="/api/list_models">list_models</a></li>`+
		`<li><a href="/api/resource">resource</a></li>`+
		`<li><a href="/api/profile">profile</a></li>`+
		`</ul></body></html>`)
}

func (m *Monitor) listModels(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.models))
	for _, model := range m.models {
		names = append(names, model.Name())
	}

	bytes, err := json.Marshal(names)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) modelStats(w http.ResponseWriter, r *http.Request) {
	model := m.findModelOr404(w, mux.Vars(r)["name"])
	if model == nil {
		return
	}

	model.ComputeStats()

	var stats any
	switch c := model.(type) {
	case *cachesim.SingleLevelCache:
		stats = c.GetStats()
	case *cachesim.TwoLevelCache:
		stats = c.GetStats()
	default:
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	bytes, err := json.Marshal(stats)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) modelDetails(w http.ResponseWriter, r *http.Request) {
	model := m.findModelOr404(w, mux.Vars(r)["name"])
	if model == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(model)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) resetModel(w http.ResponseWriter, r *http.Request) {
	model := m.findModelOr404(w, mux.Vars(r)["name"])
	if model == nil {
		return
	}

	model.ZeroStatsCounters()
	w.WriteHeader(http.StatusOK)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
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

	profBytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(profBytes)
	dieOnErr(err)
}

func (m *Monitor) findModelOr404(w http.ResponseWriter, name string) Model {
	for _, model := range m.models {
		if model.Name() == name {
			return model
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Model not found"))
	dieOnErr(err)

	return nil
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
