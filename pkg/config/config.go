// Package config loads the sectioned warehouse configuration file (dwh.cfg)
// into an explicit, immutable Config. The rest of the codebase receives Config
// values and never reads the file or the environment itself.
package config

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	SectionCluster = "CLUSTER"
	SectionAWS     = "AWS_ACCESS"
	SectionIAMRole = "IAM_ROLE"
	SectionS3      = "S3"

	DefaultDBPort    = 5439
	DefaultNodeType  = "dc2.large"
	DefaultNodeCount = 1
	DefaultSSLMode   = "require"

	// DefaultIngressCIDR is the range allowed to reach the cluster port.
	DefaultIngressCIDR = "0.0.0.0/0"

	// DefaultPolicyARN grants the warehouse read-only access to S3.
	DefaultPolicyARN = "arn:aws:iam::aws:policy/AmazonS3ReadOnlyAccess"

	redacted = "<redacted>"
)

type Config struct {
	Cluster ClusterConfig
	AWS     AWSConfig
	IAMRole IAMRoleConfig
	S3      S3Config
}

type ClusterConfig struct {
	Host              string
	DBName            string
	DBUser            string
	DBPassword        string
	DBPort            int
	SSLMode           string
	NodeType          string
	NodeCount         int
	Identifier        string
	SecurityGroupName string
	IngressCIDR       string
}

// ClusterType is the Redshift cluster type implied by the node count.
func (c ClusterConfig) ClusterType() string {
	if c.NodeCount > 1 {
		return "multi-node"
	}
	return "single-node"
}

type AWSConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
}

type IAMRoleConfig struct {
	// Name of the role the warehouse assumes to read from S3.
	Name string
	// PolicyARN is attached to the role on setup and detached on teardown.
	PolicyARN string
	// RoleARN is optional; when empty it is looked up by Name.
	RoleARN string
}

type S3Config struct {
	LogData     string
	LogJSONPath string
	SongData    string
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config file %s: %v", path, err)
	}
	return fromFile(f)
}

// Parse reads and validates configuration from raw INI data.
func Parse(data []byte) (Config, error) {
	f, err := ini.Load(data)
	if err != nil {
		return Config{}, fmt.Errorf("unable to parse config: %v", err)
	}
	return fromFile(f)
}

func fromFile(f *ini.File) (Config, error) {
	cluster := f.Section(SectionCluster)
	awsSec := f.Section(SectionAWS)
	role := f.Section(SectionIAMRole)
	s3 := f.Section(SectionS3)

	port, err := intKey(cluster, "DB_PORT", DefaultDBPort)
	if err != nil {
		return Config{}, err
	}
	nodeCount, err := intKey(cluster, "NODE_COUNT", DefaultNodeCount)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Cluster: ClusterConfig{
			Host:              strings.TrimSpace(cluster.Key("HOST").String()),
			DBName:            cluster.Key("DB_NAME").String(),
			DBUser:            cluster.Key("DB_USER").String(),
			DBPassword:        cluster.Key("DB_PASSWORD").String(),
			DBPort:            port,
			SSLMode:           cluster.Key("SSL_MODE").MustString(DefaultSSLMode),
			NodeType:          cluster.Key("NODE_TYPE").MustString(DefaultNodeType),
			NodeCount:         nodeCount,
			Identifier:        cluster.Key("CLUSTER_IDENTIFIER").String(),
			SecurityGroupName: cluster.Key("SECURITY_GROUP_NAME").String(),
			IngressCIDR:       cluster.Key("INGRESS_CIDR").MustString(DefaultIngressCIDR),
		},
		AWS: AWSConfig{
			AccessKeyID:     awsSec.Key("AWS_ACCESS_KEY_ID").String(),
			SecretAccessKey: awsSec.Key("AWS_SECRET_ACCESS_KEY").String(),
			Region:          awsSec.Key("AWS_REGION").String(),
		},
		IAMRole: IAMRoleConfig{
			Name:      role.Key("NAME").String(),
			PolicyARN: role.Key("ARN").MustString(DefaultPolicyARN),
			RoleARN:   role.Key("ROLE_ARN").String(),
		},
		S3: S3Config{
			LogData:     s3.Key("LOG_DATA").String(),
			LogJSONPath: s3.Key("LOG_JSONPATH").String(),
			SongData:    s3.Key("SONG_DATA").String(),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func intKey(sec *ini.Section, name string, def int) (int, error) {
	if !sec.HasKey(name) {
		return def, nil
	}
	v, err := sec.Key(name).Int()
	if err != nil {
		return 0, fmt.Errorf("invalid %s.%s: %v", sec.Name(), name, err)
	}
	return v, nil
}

// Validate checks the settings every command relies on. Settings only some
// commands need (S3 locations, HOST) are checked where they are used.
func (cfg Config) Validate() error {
	var missing []string
	required := []struct {
		name, value string
	}{
		{SectionCluster + ".DB_NAME", cfg.Cluster.DBName},
		{SectionCluster + ".DB_USER", cfg.Cluster.DBUser},
		{SectionCluster + ".DB_PASSWORD", cfg.Cluster.DBPassword},
		{SectionCluster + ".CLUSTER_IDENTIFIER", cfg.Cluster.Identifier},
		{SectionAWS + ".AWS_REGION", cfg.AWS.Region},
		{SectionIAMRole + ".NAME", cfg.IAMRole.Name},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) != 0 {
		return fmt.Errorf("missing required config values: %s", strings.Join(missing, ", "))
	}
	if cfg.Cluster.DBPort <= 0 || cfg.Cluster.DBPort > 65535 {
		return fmt.Errorf("invalid %s.DB_PORT %d", SectionCluster, cfg.Cluster.DBPort)
	}
	if cfg.Cluster.NodeCount < 1 {
		return fmt.Errorf("invalid %s.NODE_COUNT %d: must be at least 1", SectionCluster, cfg.Cluster.NodeCount)
	}
	if (cfg.AWS.AccessKeyID == "") != (cfg.AWS.SecretAccessKey == "") {
		return errors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
	}
	return nil
}

// ValidateSources checks the S3 settings the ETL pipeline needs.
func (cfg Config) ValidateSources() error {
	if cfg.S3.LogData == "" || cfg.S3.SongData == "" {
		return fmt.Errorf("%s.LOG_DATA and %s.SONG_DATA must be set", SectionS3, SectionS3)
	}
	for _, loc := range []string{cfg.S3.LogData, cfg.S3.SongData, cfg.S3.LogJSONPath} {
		if loc != "" && !strings.HasPrefix(loc, "s3://") {
			return fmt.Errorf("invalid S3 location %q: must start with s3://", loc)
		}
	}
	return nil
}

// WithHost returns a copy of cfg pointing at host.
func (cfg Config) WithHost(host string) Config {
	cfg.Cluster.Host = host
	return cfg
}

// WithRoleARN returns a copy of cfg with the access role ARN set.
func (cfg Config) WithRoleARN(arn string) Config {
	cfg.IAMRole.RoleARN = arn
	return cfg
}

// ConnectionString builds a lib/pq key/value connection string for the
// cluster database.
func (c ClusterConfig) ConnectionString() string {
	pairs := []struct{ k, v string }{
		{"host", c.Host},
		{"dbname", c.DBName},
		{"user", c.DBUser},
		{"password", c.DBPassword},
		{"port", fmt.Sprintf("%d", c.DBPort)},
		{"sslmode", c.SSLMode},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.v == "" {
			continue
		}
		parts = append(parts, p.k+"="+quoteConnValue(p.v))
	}
	return strings.Join(parts, " ")
}

func quoteConnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.Replace(v, `\`, `\\`, -1)
	v = strings.Replace(v, `'`, `\'`, -1)
	return "'" + v + "'"
}

// Redacted returns a copy of cfg safe to log.
func (cfg Config) Redacted() Config {
	if cfg.Cluster.DBPassword != "" {
		cfg.Cluster.DBPassword = redacted
	}
	if cfg.AWS.SecretAccessKey != "" {
		cfg.AWS.SecretAccessKey = redacted
	}
	return cfg
}
