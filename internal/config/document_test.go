package config_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hamed0406/statusdash/internal/config"
	"github.com/hamed0406/statusdash/internal/domain"
)

func parseJSON(doc string) (*config.Document, error) {
	return config.ParseDocument(strings.NewReader(doc), "json")
}

var _ = Describe("Document", func() {
	Describe("ParseDocument", func() {
		It("parses a health check document", func() {
			doc, err := parseJSON(`{
				"project_name": "test-project",
				"stale_timeout_seconds": 30,
				"environments": [{
					"name": "prod",
					"checks": [{"name": "Backend", "url": "https://example.com/health", "check_type": "health"}]
				}]
			}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.ProjectName).To(Equal("test-project"))
			Expect(doc.StaleAfter()).To(Equal(30 * time.Second))
			Expect(doc.Environments).To(HaveLen(1))
			Expect(doc.Environments[0].Checks[0].Keyword).To(BeNil())
		})

		It("parses a keyword check with its keyword", func() {
			doc, err := parseJSON(`{
				"project_name": "test",
				"stale_timeout_seconds": 30,
				"environments": [{"name": "prod", "checks": [{
					"name": "Frontend", "url": "https://example.com",
					"check_type": "keyword", "keyword": "<title>Test</title>"
				}]}]
			}`)
			Expect(err).NotTo(HaveOccurred())
			kw := doc.Environments[0].Checks[0].Keyword
			Expect(kw).NotTo(BeNil())
			Expect(*kw).To(Equal("<title>Test</title>"))
		})

		It("tolerates a keyword check without keyword", func() {
			doc, err := parseJSON(`{
				"project_name": "test",
				"stale_timeout_seconds": 30,
				"environments": [{"name": "prod", "checks": [{
					"name": "Frontend", "url": "https://example.com", "check_type": "keyword"
				}]}]
			}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.KeywordlessChecks()).To(ConsistOf(domain.CheckIdentity{Environment: "prod", Check: "Frontend"}))
		})

		It("accepts an empty environment list", func() {
			doc, err := parseJSON(`{"project_name": "test", "stale_timeout_seconds": 30, "environments": []}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Checks()).To(BeEmpty())
		})

		It("accepts a zero stale timeout", func() {
			doc, err := parseJSON(`{"project_name": "test", "stale_timeout_seconds": 0, "environments": []}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.StaleAfter()).To(BeZero())
		})

		It("accepts an integral float from JSON", func() {
			doc, err := parseJSON(`{"project_name": "test", "stale_timeout_seconds": 30.0, "environments": []}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.StaleTimeoutSeconds).To(Equal(30))
		})

		It("saturates huge stale timeouts instead of overflowing", func() {
			doc, err := parseJSON(`{"project_name": "test", "stale_timeout_seconds": 10000000000, "environments": []}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.StaleTimeoutSeconds).To(Equal(10000000000))
			Expect(doc.StaleAfter()).To(Equal(time.Duration(math.MaxInt64)))
			Expect(doc.StaleAfter()).To(BeNumerically(">", 0))
		})

		It("keeps the largest representable stale timeout exact", func() {
			doc, err := parseJSON(`{"project_name": "test", "stale_timeout_seconds": 9223372036, "environments": []}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.StaleAfter()).To(Equal(9223372036 * time.Second))
		})

		It("rejects a fractional stale timeout in YAML", func() {
			_, err := config.ParseDocument(strings.NewReader("project_name: t\nstale_timeout_seconds: 30.7\nenvironments: []\n"), "yaml")
			Expect(err).To(HaveOccurred())
		})

		It("parses YAML too", func() {
			doc, err := config.ParseDocument(strings.NewReader(`
project_name: yaml-project
stale_timeout_seconds: 45
environments:
  - name: staging
    checks:
      - name: api
        url: http://staging.internal/health
        check_type: health
`), "yaml")
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.ProjectName).To(Equal("yaml-project"))
			Expect(doc.Checks()).To(HaveLen(1))
		})

		DescribeTable("rejects invalid documents",
			func(doc string) {
				_, err := parseJSON(doc)
				Expect(err).To(HaveOccurred())
			},
			Entry("unknown check_type", `{"project_name":"t","stale_timeout_seconds":30,"environments":[{"name":"prod","checks":[{"name":"x","url":"https://example.com","check_type":"invalid_type"}]}]}`),
			Entry("check_type is case-sensitive", `{"project_name":"t","stale_timeout_seconds":30,"environments":[{"name":"prod","checks":[{"name":"x","url":"https://example.com","check_type":"Health"}]}]}`),
			Entry("missing check_type", `{"project_name":"t","stale_timeout_seconds":30,"environments":[{"name":"prod","checks":[{"name":"x","url":"https://example.com"}]}]}`),
			Entry("fractional stale timeout", `{"project_name":"t","stale_timeout_seconds":30.7,"environments":[]}`),
			Entry("string stale timeout", `{"project_name":"t","stale_timeout_seconds":"30","environments":[]}`),
			Entry("boolean stale timeout", `{"project_name":"t","stale_timeout_seconds":true,"environments":[]}`),
			Entry("stale timeout beyond int64", `{"project_name":"t","stale_timeout_seconds":1e30,"environments":[]}`),
			Entry("negative stale timeout", `{"project_name":"t","stale_timeout_seconds":-1,"environments":[]}`),
			Entry("missing stale timeout", `{"project_name":"t","environments":[]}`),
			Entry("missing project name", `{"stale_timeout_seconds":30,"environments":[]}`),
			Entry("empty environment name", `{"project_name":"t","stale_timeout_seconds":30,"environments":[{"name":"","checks":[]}]}`),
			Entry("empty check name", `{"project_name":"t","stale_timeout_seconds":30,"environments":[{"name":"prod","checks":[{"name":"","url":"https://example.com","check_type":"health"}]}]}`),
			Entry("non-http url", `{"project_name":"t","stale_timeout_seconds":30,"environments":[{"name":"prod","checks":[{"name":"x","url":"ftp://example.com","check_type":"health"}]}]}`),
			Entry("url without host", `{"project_name":"t","stale_timeout_seconds":30,"environments":[{"name":"prod","checks":[{"name":"x","url":"https://","check_type":"health"}]}]}`),
			Entry("malformed json", `{"project_name":`),
		)

		It("rejects duplicate identities within an environment", func() {
			_, err := parseJSON(`{"project_name":"t","stale_timeout_seconds":30,"environments":[
				{"name":"prod","checks":[
					{"name":"api","url":"https://a.example.com","check_type":"health"},
					{"name":"api","url":"https://b.example.com","check_type":"health"}
				]}
			]}`)
			Expect(errors.Is(err, config.ErrDuplicateCheck)).To(BeTrue())
		})

		It("allows the same check name in different environments", func() {
			doc, err := parseJSON(`{"project_name":"t","stale_timeout_seconds":30,"environments":[
				{"name":"prod","checks":[{"name":"api","url":"https://a.example.com","check_type":"health"}]},
				{"name":"staging","checks":[{"name":"api","url":"https://b.example.com","check_type":"health"}]}
			]}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Checks()).To(HaveLen(2))
		})

		It("keeps names verbatim", func() {
			doc, err := parseJSON(`{"project_name":"t","stale_timeout_seconds":30,"environments":[
				{"name":"Prod ","checks":[
					{"name":"API","url":"https://a.example.com","check_type":"health"},
					{"name":"api","url":"https://b.example.com","check_type":"health"}
				]}
			]}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Checks()[0].ID).To(Equal(domain.CheckIdentity{Environment: "Prod ", Check: "API"}))
			Expect(doc.Checks()[1].ID).To(Equal(domain.CheckIdentity{Environment: "Prod ", Check: "api"}))
		})
	})

	Describe("Checks", func() {
		It("flattens environments in configuration order", func() {
			doc, err := parseJSON(`{"project_name":"t","stale_timeout_seconds":30,"environments":[
				{"name":"prod","checks":[
					{"name":"web","url":"https://www.example.com","check_type":"keyword","keyword":"Welcome"},
					{"name":"api","url":"https://api.example.com/health","check_type":"health"}
				]},
				{"name":"staging","checks":[{"name":"api","url":"https://api.staging.example.com/health","check_type":"health"}]}
			]}`)
			Expect(err).NotTo(HaveOccurred())

			cs := doc.Checks()
			Expect(cs).To(HaveLen(3))
			Expect(cs[0].ID.String()).To(Equal("prod:web"))
			Expect(cs[0].Spec.Kind).To(Equal(domain.KindKeywordMatch))
			Expect(*cs[0].Spec.Keyword).To(Equal("Welcome"))
			Expect(cs[1].ID.String()).To(Equal("prod:api"))
			Expect(cs[1].Spec.Kind).To(Equal(domain.KindHealthJSON))
			Expect(cs[2].ID.String()).To(Equal("staging:api"))
		})
	})

	Describe("LoadDocument", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "statusdash-config-*")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			os.RemoveAll(tempDir)
		})

		It("loads a JSON file", func() {
			path := filepath.Join(tempDir, "config.json")
			Expect(os.WriteFile(path, []byte(`{"project_name":"file","stale_timeout_seconds":10,"environments":[]}`), 0o644)).To(Succeed())

			doc, err := config.LoadDocument(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.ProjectName).To(Equal("file"))
		})

		It("fails when the file is missing", func() {
			_, err := config.LoadDocument(filepath.Join(tempDir, "missing.json"))
			Expect(err).To(HaveOccurred())
		})

		It("lets the environment override the stale timeout", func() {
			path := filepath.Join(tempDir, "config.json")
			Expect(os.WriteFile(path, []byte(`{"project_name":"file","stale_timeout_seconds":10,"environments":[]}`), 0o644)).To(Succeed())
			setenv(config.EnvPrefix+"_STALE_TIMEOUT_SECONDS", "90")

			doc, err := config.LoadDocument(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.StaleTimeoutSeconds).To(Equal(90))
		})

		It("rejects a non-integer environment override", func() {
			path := filepath.Join(tempDir, "config.json")
			Expect(os.WriteFile(path, []byte(`{"project_name":"file","stale_timeout_seconds":10,"environments":[]}`), 0o644)).To(Succeed())
			setenv(config.EnvPrefix+"_STALE_TIMEOUT_SECONDS", "12.5")

			_, err := config.LoadDocument(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
