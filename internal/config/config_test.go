package config_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hamed0406/statusdash/internal/config"
)

func setenv(key, value string) {
	prev, had := os.LookupEnv(key)
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(func() {
		if had {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	})
}

var _ = Describe("FromEnv", func() {
	It("parses every setting", func() {
		setenv("ADDR", ":9090")
		setenv("LOG_DIR", "./_testlogs")
		setenv("LOG_LEVEL", "debug")
		setenv("CONFIG_PATH", "/etc/statusdash/config.yaml")
		setenv("POLL_INTERVAL_MS", "250")
		setenv("POLL_CONCURRENCY", "4")
		setenv("PUBLIC_RPM", "111")
		setenv("PUBLIC_BURST", "22")

		cfg := config.FromEnv()

		Expect(cfg.Addr).To(Equal(":9090"))
		Expect(cfg.LogDir).To(Equal("./_testlogs"))
		Expect(cfg.LogLevel).To(Equal("debug"))
		Expect(cfg.ConfigPath).To(Equal("/etc/statusdash/config.yaml"))
		Expect(cfg.PollInterval).To(Equal(250 * time.Millisecond))
		Expect(cfg.PollConcurrency).To(Equal(4))
		Expect(cfg.PublicRPM).To(Equal(111))
		Expect(cfg.PublicBurst).To(Equal(22))
	})

	It("falls back to defaults for missing or invalid values", func() {
		for _, k := range []string{"ADDR", "LOG_DIR", "LOG_LEVEL", "CONFIG_PATH", "PUBLIC_RPM", "PUBLIC_BURST"} {
			setenv(k, "")
		}
		setenv("POLL_INTERVAL_MS", "-5")
		setenv("POLL_CONCURRENCY", "many")

		cfg := config.FromEnv()

		Expect(cfg.Addr).To(Equal("0.0.0.0:3000"))
		Expect(cfg.LogDir).To(Equal("logs"))
		Expect(cfg.LogLevel).To(Equal("info"))
		Expect(cfg.ConfigPath).To(Equal("config.json"))
		Expect(cfg.PollInterval).To(Equal(time.Second))
		Expect(cfg.PollConcurrency).To(Equal(1))
		Expect(cfg.PublicRPM).To(Equal(600))
		Expect(cfg.PublicBurst).To(Equal(100))
	})

	It("allows disabling the rate limit", func() {
		setenv("PUBLIC_RPM", "0")
		Expect(config.FromEnv().PublicRPM).To(Equal(0))
	})
})
