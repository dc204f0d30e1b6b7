package main

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kubev2v/jobqueue/internal/config"
	srvErrors "github.com/kubev2v/jobqueue/pkg/errors"
)

var _ = Describe("loadConfiguration", func() {
	var (
		v     *viper.Viper
		flags *pflag.FlagSet
	)

	BeforeEach(func() {
		defaults, err := config.NewConfigurationWithDefaults()
		Expect(err).NotTo(HaveOccurred())

		v = viper.New()
		flags = pflag.NewFlagSet("run", pflag.ContinueOnError)
		registerFlags(flags, defaults)
	})

	It("returns the defaults when nothing is set", func() {
		cfg, err := loadConfiguration(v, flags)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Server.ServerMode).To(Equal("dev"))
		Expect(cfg.Server.HTTPPort).To(Equal(8000))
		Expect(cfg.Queue.Capacity).To(Equal(int64(1 << 20)))
		Expect(cfg.Queue.DispatcherRunsTasks).To(BeTrue())
		Expect(cfg.Queue.StopTimeout).To(Equal(time.Second))
		Expect(cfg.LogFormat).To(Equal("console"))
	})

	It("reads flags", func() {
		Expect(flags.Parse([]string{
			"--http-port=9090",
			"--queue-permits=3",
			"--dispatcher-runs-tasks=false",
			"--stop-timeout=5s",
			"--log-format=json",
		})).To(Succeed())

		cfg, err := loadConfiguration(v, flags)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Server.HTTPPort).To(Equal(9090))
		Expect(cfg.Queue.Permits).To(Equal(3))
		Expect(cfg.Queue.DispatcherRunsTasks).To(BeFalse())
		Expect(cfg.Queue.StopTimeout).To(Equal(5 * time.Second))
		Expect(cfg.LogFormat).To(Equal("json"))
	})

	It("reads JOBQUEUE_ environment variables", func() {
		GinkgoT().Setenv("JOBQUEUE_QUEUE_CAPACITY", "42")
		GinkgoT().Setenv("JOBQUEUE_SERVER_MODE", "prod")

		cfg, err := loadConfiguration(v, flags)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Queue.Capacity).To(Equal(int64(42)))
		Expect(cfg.Server.ServerMode).To(Equal("prod"))
	})

	It("prefers flags over the environment", func() {
		GinkgoT().Setenv("JOBQUEUE_SERVER_HTTP_PORT", "7000")
		Expect(flags.Parse([]string{"--http-port=7001"})).To(Succeed())

		cfg, err := loadConfiguration(v, flags)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.HTTPPort).To(Equal(7001))
	})

	It("reads a config file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "jobqueue.yaml")
		Expect(os.WriteFile(path, []byte("queue:\n  permits: 7\nstore:\n  path: /tmp/history.duckdb\n"), 0o600)).To(Succeed())
		Expect(flags.Parse([]string{"--config=" + path})).To(Succeed())

		cfg, err := loadConfiguration(v, flags)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Queue.Permits).To(Equal(7))
		Expect(cfg.Store.Path).To(Equal("/tmp/history.duckdb"))
	})

	It("fails on a missing config file", func() {
		Expect(flags.Parse([]string{"--config=/does/not/exist.yaml"})).To(Succeed())

		_, err := loadConfiguration(v, flags)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an invalid configuration", func() {
		Expect(flags.Parse([]string{"--server-mode=staging"})).To(Succeed())

		_, err := loadConfiguration(v, flags)
		Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
	})
})

var _ = Describe("newLogger", func() {
	It("builds console and json loggers", func() {
		for _, format := range []string{"console", "json"} {
			logger, err := newLogger(format, "debug")
			Expect(err).NotTo(HaveOccurred())
			Expect(logger.Core().Enabled(-1)).To(BeTrue())
		}
	})

	It("rejects an unknown level", func() {
		_, err := newLogger("console", "loud")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("version command", func() {
	It("prints the version", func() {
		var out bytes.Buffer
		root := NewRootCommand()
		root.SetOut(&out)
		root.SetArgs([]string{"version"})

		Expect(root.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("jobqueue"))
	})
})
