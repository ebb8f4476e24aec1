package logger

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

var (
	configLoads      int64
	configFailures   int64
	keyringHits      int64
	envFallbacks     int64
	credentialMisses int64
	componentWarns   sync.Map // map[string]*int64
	componentErrors  sync.Map // map[string]*int64
)

// IncrementConfigLoad records a successfully loaded configuration.
func IncrementConfigLoad() {
	atomic.AddInt64(&configLoads, 1)
}

// IncrementConfigFailure records a configuration load that was rejected.
func IncrementConfigFailure() {
	atomic.AddInt64(&configFailures, 1)
}

// IncrementKeyringHit records an API key served from the OS keyring.
func IncrementKeyringHit() {
	atomic.AddInt64(&keyringHits, 1)
}

// IncrementEnvFallback records an API key served from the environment.
func IncrementEnvFallback() {
	atomic.AddInt64(&envFallbacks, 1)
}

// IncrementCredentialMiss records a lookup that found no key in either
// source.
func IncrementCredentialMiss() {
	atomic.AddInt64(&credentialMisses, 1)
}

func recordWarn(component string) {
	bump(&componentWarns, component)
}

func recordError(component string) {
	bump(&componentErrors, component)
}

func bump(m *sync.Map, component string) {
	v, _ := m.LoadOrStore(component, new(int64))
	atomic.AddInt64(v.(*int64), 1)
}

func counterSnapshot(m *sync.Map) map[string]int64 {
	out := map[string]int64{}
	m.Range(func(k, v any) bool {
		out[k.(string)] = atomic.LoadInt64(v.(*int64))
		return true
	})
	return out
}

// StartReport begins periodic logging of configuration, credential
// lookup and system statistics until the context is cancelled.
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				logReport(ctx, log)
			}
		}
	}()
}

func logReport(ctx context.Context, log *Log) {
	cpuPercent, _ := cpu.Percent(0, false)
	memStats, _ := mem.VirtualMemory()
	diskStats, _ := disk.Usage("/")

	cpuPct := 0.0
	if len(cpuPercent) > 0 {
		cpuPct = cpuPercent[0]
	}

	memUsedMB := int64(0)
	if memStats != nil {
		memUsedMB = int64(memStats.Used) / 1024 / 1024
	}
	diskUsedMB := int64(0)
	if diskStats != nil {
		diskUsedMB = int64(diskStats.Used) / 1024 / 1024
	}

	fields := Fields{
		"config_loads":      atomic.LoadInt64(&configLoads),
		"config_failures":   atomic.LoadInt64(&configFailures),
		"keyring_hits":      atomic.LoadInt64(&keyringHits),
		"env_fallbacks":     atomic.LoadInt64(&envFallbacks),
		"credential_misses": atomic.LoadInt64(&credentialMisses),
		"warns":             counterSnapshot(&componentWarns),
		"errors":            counterSnapshot(&componentErrors),
		"goroutines":        runtime.NumGoroutine(),
		"cpu_percent":       cpuPct,
		"memory_mb":         memUsedMB,
		"disk_mb":           diskUsedMB,
	}

	log.WithComponent("report").WithFields(fields).Info("runtime report")

	data := []cwtypes.MetricDatum{
		{MetricName: aws.String("ArbBot-CPUPercent"), Unit: cwtypes.StandardUnitPercent, Value: aws.Float64(cpuPct)},
		{MetricName: aws.String("ArbBot-MemoryMB"), Unit: cwtypes.StandardUnitMegabytes, Value: aws.Float64(float64(memUsedMB))},
		{MetricName: aws.String("ArbBot-DiskMB"), Unit: cwtypes.StandardUnitMegabytes, Value: aws.Float64(float64(diskUsedMB))},
		{MetricName: aws.String("ArbBot-ConfigLoads"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&configLoads)))},
		{MetricName: aws.String("ArbBot-ConfigFailures"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&configFailures)))},
		{MetricName: aws.String("ArbBot-KeyringHits"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&keyringHits)))},
		{MetricName: aws.String("ArbBot-EnvFallbacks"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&envFallbacks)))},
		{MetricName: aws.String("ArbBot-CredentialMisses"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&credentialMisses)))},
	}

	for component, count := range counterSnapshot(&componentErrors) {
		data = append(data, cwtypes.MetricDatum{
			MetricName: aws.String("ArbBot-Errors"),
			Unit:       cwtypes.StandardUnitCount,
			Dimensions: []cwtypes.Dimension{{Name: aws.String("Component"), Value: aws.String(component)}},
			Value:      aws.Float64(float64(count)),
		})
	}
	for component, count := range counterSnapshot(&componentWarns) {
		data = append(data, cwtypes.MetricDatum{
			MetricName: aws.String("ArbBot-Warns"),
			Unit:       cwtypes.StandardUnitCount,
			Dimensions: []cwtypes.Dimension{{Name: aws.String("Component"), Value: aws.String(component)}},
			Value:      aws.Float64(float64(count)),
		})
	}

	publishMetrics(ctx, data)
}
