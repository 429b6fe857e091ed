package builder

import (
	"github.com/avicd/go-kifu/logger"
	"github.com/avicd/go-kifu/session"
	"github.com/avicd/go-utilx/xmlx"
	"github.com/bmatcuk/doublestar/v4"
	"io/fs"
	"os"
	"sort"
	"strings"
)

// XmlBuilder loads every <mapper> file matched by Scan. Files are looked up
// in FS when it is set (embedded mappers) and on disk otherwise.
type XmlBuilder struct {
	cfg  *session.Config
	Scan string
	FS   fs.FS
}

func (it *XmlBuilder) files(pattern string) ([]string, error) {
	var files []string
	var err error
	if it.FS != nil {
		files, err = doublestar.Glob(it.FS, pattern)
	} else {
		files, err = doublestar.FilepathGlob(pattern)
	}
	sort.Strings(files)
	return files, err
}

func (it *XmlBuilder) read(file string) ([]byte, error) {
	if it.FS != nil {
		return fs.ReadFile(it.FS, file)
	}
	return os.ReadFile(file)
}

func (it *XmlBuilder) Build(config *session.Config) {
	it.cfg = config
	if it.Scan == "" {
		it.Scan = it.cfg.XmlScan
	}
	if it.FS == nil {
		it.FS = it.cfg.XmlFS
	}
	pattern := strings.TrimSpace(it.Scan)
	if pattern == "" {
		pattern = "**/*.xml"
	}
	xmlFiles, err := it.files(pattern)
	if err != nil {
		logger.Errorf("scan mappers '%s': %v", pattern, err)
		return
	}
	for _, xmlFile := range xmlFiles {
		content, err := it.read(xmlFile)
		if err != nil {
			logger.Error(err.Error())
			continue
		}
		it.BuildMapper(xmlFile, string(content))
	}
}

// BuildMapper registers the namespace, result maps and statements of one
// mapper document.
func (it *XmlBuilder) BuildMapper(xmlFile string, content string) {
	doc, err := xmlx.Parse(strings.NewReader(content))
	if err != nil {
		logger.Errorf("parse mapper [%s]: %v", xmlFile, err)
		return
	}
	mapper := doc.FindOne("/mapper")
	if mapper == nil {
		return
	}
	ns := mapper.AttrString("namespace")
	if ns == "" {
		logger.Warnf("missing namespace <mapper namespace=?, skipped [%s]", xmlFile)
		return
	}
	if it.cfg.HasNs(ns) {
		logger.Warnf("duplicate namespace <mapper namespace='%s', skipped [%s]", ns, xmlFile)
		return
	}
	it.cfg.AddNs(ns, xmlFile)
	rsBuilder := &RsMapBuilder{Ns: ns, Nodes: mapper.Find("resultMap")}
	rsBuilder.Build(it.cfg)

	refSql := map[string]*xmlx.Node{}
	for _, sqNode := range mapper.Find("sql") {
		sqId := sqNode.AttrString("id")
		if sqId == "" {
			logger.Warnf("missing id <sql id=?, skipped [%s]", xmlFile)
			continue
		}
		refSql[sqId] = sqNode
	}
	stBuilder := &StmtBuilder{Ns: ns, Nodes: mapper.Find("select|insert|update|delete"), RefSql: refSql}
	stBuilder.Build(it.cfg)
}
