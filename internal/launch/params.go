package launch

import (
	"quill/internal/cmdline"
	"quill/internal/config"
)

const (
	FlagHelp          = "--help"
	FlagMultiInstance = "-multiInst"
	FlagNoPlugin      = "-noPlugin"
	FlagReadOnly      = "-ro"
	FlagNoSession     = "-nosession"
	FlagNoTabBar      = "-notabbar"
	FlagSysTray       = "-systemtray"
	FlagLoadingTime   = "-loadingtime"
)

// CmdLineParams is everything the command line says about how to open the files.
// The zero value is not "nothing given": use NewCmdLineParams.
type CmdLineParams struct {
	IsNoTab         bool
	IsNoPlugin      bool
	IsReadOnly      bool
	IsNoSession     bool
	IsPreLaunch     bool // start minimised to the tray
	ShowLoadingTime bool

	Line2Go          int
	IsLine2GoValid   bool
	Column2Go        int
	IsColumn2GoValid bool

	PointX        int
	IsPointXValid bool
	PointY        int
	IsPointYValid bool

	LangType string
}

func NewCmdLineParams() CmdLineParams {
	return CmdLineParams{Line2Go: -1, Column2Go: -1, PointX: -1, PointY: -1, LangType: LangExternal}
}

type Options struct {
	ShowHelp    bool
	IsMultiInst bool
	Params      CmdLineParams
}

// Parse peels every known flag off params. What is left in params afterwards are file names,
// including unknown "-" tokens and repeated flags.
func Parse(params *cmdline.Params) Options {
	options := Options{Params: NewCmdLineParams()}
	options.ShowHelp = params.IsInList(FlagHelp)
	options.IsMultiInst = params.IsInList(FlagMultiInstance)

	p := &options.Params
	p.IsNoTab = params.IsInList(FlagNoTabBar)
	p.IsNoPlugin = params.IsInList(FlagNoPlugin)
	p.IsReadOnly = params.IsInList(FlagReadOnly)
	p.IsNoSession = params.IsInList(FlagNoSession)
	p.IsPreLaunch = params.IsInList(FlagSysTray)
	p.ShowLoadingTime = params.IsInList(FlagLoadingTime)

	// switches first, otherwise -nosession would be taken for -n
	p.LangType = getLangTypeFromParam(params)
	p.Line2Go, p.IsLine2GoValid = params.GetNumberFromParam('n')
	p.Column2Go, p.IsColumn2GoValid = params.GetNumberFromParam('c')
	p.PointX, p.IsPointXValid = params.GetNumberFromParam('x')
	p.PointY, p.IsPointYValid = params.GetNumberFromParam('y')

	return options
}

func getLangTypeFromParam(params *cmdline.Params) string {
	langStr, found := params.GetParamVal('l')
	if !found { return LangExternal }
	return GetLangIDFromStr(langStr)
}

// ApplyPreferences overrides the command line with the notepad replacement mode.
func (o *Options) ApplyPreferences(conf *config.Config) {
	if conf.IsMultiInstance() { o.IsMultiInst = true }
	if conf.AsNotepadStyle() {
		o.IsMultiInst = true
		o.Params.IsNoTab = true
		o.Params.IsNoSession = true
	}
}

const Usage = `Usage :

quill [--help] [-multiInst] [-noPlugin] [-lLanguage] [-nLineNumber] [-cColumnNumber] [-xPos] [-yPos] [-nosession] [-notabbar] [-ro] [-systemtray] [-loadingtime] [fullFilePathName]

    --help : This help message
    -multiInst : Launch another quill instance
    -noPlugin : Launch quill without loading any plugin
    -l : Launch quill by applying indicated language to the file to open
    -n : Launch quill by scrolling indicated line on the file to open
    -c : Launch quill on scrolling indicated column on the file to open
    -x : Launch quill by indicating its left side position on the screen
    -y : Launch quill by indicating its top position on the screen
    -nosession : Launch quill without any session
    -notabbar : Launch quill without tabbar
    -ro : Launch quill and make the file to open read only
    -systemtray : Launch quill in the background, the next launch brings it up
    -loadingtime : Display quill loading time
    fullFilePathName : file name to open (absolute or relative path name)
`
