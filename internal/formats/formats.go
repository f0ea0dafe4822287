// Package formats 链接全部内置读取器和写入器
//
// 导入本包即可让每个实现的 init 完成注册，新增格式时在这里加一行空白导入。
package formats

import (
	// 读取器
	_ "github.com/nerdneilsfield/docpipe/internal/reader/markdown"
	_ "github.com/nerdneilsfield/docpipe/internal/reader/mdsimple"

	// 写入器
	_ "github.com/nerdneilsfield/docpipe/internal/writer/dumper"
	_ "github.com/nerdneilsfield/docpipe/internal/writer/html"
	_ "github.com/nerdneilsfield/docpipe/internal/writer/markdown"
	_ "github.com/nerdneilsfield/docpipe/internal/writer/pdf"
)
