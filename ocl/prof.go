package ocl

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/gocl/cl"
)

// ProfAgg holds the total device time of all events sharing a name.
type ProfAgg struct {
	Name string

	// Time is the summed device time (end minus start) of the events.
	Time time.Duration

	// Relative is Time as a fraction of the device time of all profiled
	// events.
	Relative float64
}

// ProfInfo is the profiling record of a single event. The four instants are
// device counters in nanoseconds, comparable only to each other.
type ProfInfo struct {
	Name        string
	CommandType cl.CommandType
	Queue       string

	Queued, Submitted, Started, Ended uint64
}

// ProfOverlap holds the total time during which events named Name1 and Name2
// ran simultaneously.
type ProfOverlap struct {
	Name1, Name2 string
	Duration     time.Duration
}

// Prof collects and analyzes profiling data from the events produced by one
// or more command queues. Add queues with AddQueue, run the work, then call
// Calc once and read the results. A Prof is not safe for concurrent use.
type Prof struct {
	queues map[string]*Queue
	names  []string
	calced bool

	infos    []ProfInfo
	aggs     []ProfAgg
	overlaps []ProfOverlap

	startInstant uint64
	totalTime    time.Duration
	effTime      time.Duration

	begin   time.Time
	elapsed time.Duration
	stopped bool
}

// NewProf creates an empty profile.
func NewProf() *Prof {
	return &Prof{queues: make(map[string]*Queue)}
}

// AddQueue registers a queue under a name for profiling. The profile keeps a
// reference to the queue until Release. The queue must have been created with
// cl.QueueProfilingEnable. Adding a second queue under the same name replaces
// the first.
func (p *Prof) AddQueue(name string, q *Queue) {
	if p.calced {
		panicf("Prof.AddQueue called after Calc")
	}
	if old, ok := p.queues[name]; ok {
		klog.Warningf("Profile already has a queue named %q, replacing it", name)
		if err := old.Release(); err != nil {
			klog.Errorf("Releasing replaced queue %q: %+v", name, err)
		}
	} else {
		p.names = append(p.names, name)
	}
	q.Retain()
	p.queues[name] = q
}

// Release drops the references to the queues added with AddQueue. The
// computed results stay readable.
func (p *Prof) Release() {
	for name, q := range p.queues {
		if err := q.Release(); err != nil {
			klog.Errorf("Releasing profiled queue %q: %+v", name, err)
		}
	}
	p.queues = nil
	p.names = nil
}

// Start begins the host-side timer, for relating device time to total
// elapsed time in Summary.
func (p *Prof) Start() {
	p.begin = time.Now()
	p.stopped = false
}

// Stop ends the host-side timer.
func (p *Prof) Stop() {
	p.elapsed = time.Since(p.begin)
	p.stopped = true
}

// Elapsed returns the host time measured between Start and Stop, or since
// Start if the timer still runs.
func (p *Prof) Elapsed() time.Duration {
	switch {
	case p.begin.IsZero():
		return 0
	case p.stopped:
		return p.elapsed
	default:
		return time.Since(p.begin)
	}
}

// profInstant is the start or end edge of one event on the device timeline.
type profInstant struct {
	nameID  int
	eventID int
	at      uint64
	isStart bool
}

// Calc gathers the profiling data of every event produced by the added
// queues and computes aggregate times and overlaps. It finishes each queue
// and releases its events, so each event is accounted exactly once. Calc can
// run only once per profile.
func (p *Prof) Calc() error {
	if p.calced {
		return errors.New("profiling data already calculated")
	}
	p.infos, p.aggs, p.overlaps = nil, nil, nil
	p.totalTime, p.effTime = 0, 0
	p.startInstant = math.MaxUint64

	var (
		instants []profInstant
		nameIDs  = make(map[string]int)
		names    []string
		eventID  int
	)
	for _, qName := range p.names {
		q := p.queues[qName]
		props, err := q.Properties()
		if err != nil {
			return err
		}
		if props&cl.QueueProfilingEnable == 0 {
			return errors.Errorf("queue %q does not have profiling enabled", qName)
		}
		for _, ev := range q.producedEvents() {
			evName := ev.Name()
			var insts [4]uint64
			err = nil
			for i, param := range [4]cl.ProfilingInfo{
				cl.ProfilingCommandQueued, cl.ProfilingCommandSubmit,
				cl.ProfilingCommandStart, cl.ProfilingCommandEnd,
			} {
				insts[i], err = ev.ProfilingInfo(param)
				if err != nil {
					break
				}
			}
			if err != nil {
				var qErr *QueryError
				if errors.As(err, &qErr) && qErr.Status == cl.ProfilingInfoNotAvailable {
					klog.V(2).Infof("Event %q has no profiling info", evName)
					continue
				}
				return err
			}
			cmdType, err := ev.CommandType()
			if err != nil {
				return err
			}

			nameID, ok := nameIDs[evName]
			if !ok {
				nameID = len(names)
				nameIDs[evName] = nameID
				names = append(names, evName)
			}
			eventID++

			start, end := insts[2], insts[3]
			if start < p.startInstant {
				p.startInstant = start
			}
			if end > start {
				instants = append(instants,
					profInstant{nameID: nameID, eventID: eventID, at: start, isStart: true},
					profInstant{nameID: nameID, eventID: eventID, at: end})
			} else {
				klog.V(2).Infof("Event %q did not use device time", evName)
			}
			p.infos = append(p.infos, ProfInfo{
				Name:        evName,
				CommandType: cmdType,
				Queue:       qName,
				Queued:      insts[0],
				Submitted:   insts[1],
				Started:     start,
				Ended:       end,
			})
		}
		if err := q.GC(); err != nil {
			return err
		}
	}
	if p.startInstant == math.MaxUint64 {
		p.startInstant = 0
	}

	p.calcAggregates(instants, names)
	p.calcOverlaps(instants, names)
	p.calced = true
	return nil
}

// calcAggregates sums the device time of the instant pairs per event name.
func (p *Prof) calcAggregates(instants []profInstant, names []string) {
	totals := make([]time.Duration, len(names))
	sort.SliceStable(instants, func(i, j int) bool {
		if instants[i].eventID != instants[j].eventID {
			return instants[i].eventID < instants[j].eventID
		}
		return instants[i].isStart
	})
	for i := 0; i+1 < len(instants); i += 2 {
		d := time.Duration(instants[i+1].at - instants[i].at)
		totals[instants[i].nameID] += d
		p.totalTime += d
	}
	for id, name := range names {
		agg := ProfAgg{Name: name, Time: totals[id]}
		if p.totalTime > 0 {
			agg.Relative = float64(totals[id]) / float64(p.totalTime)
		}
		p.aggs = append(p.aggs, agg)
	}
	sort.SliceStable(p.aggs, func(i, j int) bool { return p.aggs[i].Time > p.aggs[j].Time })
}

// calcOverlaps sweeps the event edges in timeline order, tracking which
// events run at each point to accumulate pairwise simultaneous time.
func (p *Prof) calcOverlaps(instants []profInstant, names []string) {
	n := len(names)
	if n == 0 {
		return
	}
	var (
		matrix       = make([]uint64, n*n)
		totalOverlap uint64

		// occurring maps running event ids to their name ids; overlapStart
		// records, per event pair, the instant at which the later one started.
		occurring    = make(map[int]int)
		overlapStart = make(map[[2]int]uint64)
	)
	pair := func(a, b int) [2]int {
		if a > b {
			a, b = b, a
		}
		return [2]int{a, b}
	}
	sort.SliceStable(instants, func(i, j int) bool { return instants[i].at < instants[j].at })
	for _, inst := range instants {
		if inst.isStart {
			for otherID := range occurring {
				overlapStart[pair(inst.eventID, otherID)] = inst.at
			}
			occurring[inst.eventID] = inst.nameID
		} else {
			delete(occurring, inst.eventID)
			for otherID, otherNameID := range occurring {
				overlap := inst.at - overlapStart[pair(inst.eventID, otherID)]
				i, j := inst.nameID, otherNameID
				if i > j {
					i, j = j, i
				}
				matrix[i*n+j] += overlap
				totalOverlap += overlap
			}
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if matrix[i*n+j] > 0 {
				p.overlaps = append(p.overlaps, ProfOverlap{
					Name1:    names[i],
					Name2:    names[j],
					Duration: time.Duration(matrix[i*n+j]),
				})
			}
		}
	}
	sort.SliceStable(p.overlaps, func(i, j int) bool {
		return p.overlaps[i].Duration > p.overlaps[j].Duration
	})
	p.effTime = p.totalTime - time.Duration(totalOverlap)
}

// Aggregates returns the per-name device times, longest first.
func (p *Prof) Aggregates() []ProfAgg { return p.aggs }

// Overlaps returns the pairwise simultaneous times, longest first.
func (p *Prof) Overlaps() []ProfOverlap { return p.overlaps }

// Infos returns the full profiling record of every event, in the order the
// queues produced them.
func (p *Prof) Infos() []ProfInfo { return p.infos }

// TotalEventsTime returns the summed device time of all profiled events.
func (p *Prof) TotalEventsTime() time.Duration { return p.totalTime }

// EffectiveEventsTime returns the summed device time discounting overlaps,
// so simultaneous work is counted once.
func (p *Prof) EffectiveEventsTime() time.Duration { return p.effTime }

// Summary formats the computed results as a table for human reading.
func (p *Prof) Summary() string {
	var b strings.Builder
	b.WriteString("\n Aggregate times by event  :\n")
	line := "   ------------------------------------------------------------------\n"
	b.WriteString(line)
	b.WriteString("   | Event name                     | Rel. time (%) | Abs. time (s) |\n")
	b.WriteString(line)
	for _, agg := range p.aggs {
		fmt.Fprintf(&b, "   | %-30.30s | %13.4f | %13.4e |\n",
			agg.Name, agg.Relative*100.0, agg.Time.Seconds())
	}
	b.WriteString(line)
	if p.totalTime > 0 {
		fmt.Fprintf(&b, "                                    |         Total | %13.4e |\n",
			p.totalTime.Seconds())
		b.WriteString("                                    ---------------------------------\n")
	}
	if len(p.overlaps) > 0 {
		b.WriteString(" Event overlaps            :\n")
		b.WriteString(line)
		b.WriteString("   | Event 1                | Event2                 | Overlap (s)  |\n")
		b.WriteString(line)
		for _, ovlp := range p.overlaps {
			fmt.Fprintf(&b, "   | %-22.22s | %-22.22s | %12.4e |\n",
				ovlp.Name1, ovlp.Name2, ovlp.Duration.Seconds())
		}
		b.WriteString(line)
		fmt.Fprintf(&b, "                            |                  Total | %12.4e |\n",
			(p.totalTime - p.effTime).Seconds())
		b.WriteString("                            -----------------------------------------\n")
		fmt.Fprintf(&b, " Tot. of all events (eff.) : %es\n", p.effTime.Seconds())
	} else {
		b.WriteString(" Event overlaps            : None\n")
	}
	if !p.begin.IsZero() {
		elapsed := p.Elapsed().Seconds()
		device := p.effTime.Seconds() * 100 / elapsed
		fmt.Fprintf(&b, " Total elapsed time        : %es\n", elapsed)
		fmt.Fprintf(&b, " Time spent in device      : %.2f%%\n", device)
		fmt.Fprintf(&b, " Time spent in host        : %.2f%%\n", 100-device)
	}
	b.WriteString("\n")
	return b.String()
}

// ExportInfo writes one tab-separated line per event, sorted by start
// instant: queue name, start, end, event name. Instants are in nanoseconds,
// shifted so the first profiled start is zero.
func (p *Prof) ExportInfo(w io.Writer) error {
	rows := make([]ProfInfo, len(p.infos))
	copy(rows, p.infos)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Started < rows[j].Started })
	for _, row := range rows {
		_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
			row.Queue, row.Started-p.startInstant, row.Ended-p.startInstant, row.Name)
		if err != nil {
			return errors.Wrap(err, "exporting profiling info")
		}
	}
	return nil
}

// ExportInfoFile writes the ExportInfo output to a new file.
func (p *Prof) ExportInfoFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "exporting profiling info")
	}
	if err = p.ExportInfo(f); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "exporting profiling info")
}
