package config

type Config struct {
	InputPath    string
	OutputDir    string
	OutputVideo  string
	StartFrame   int
	EndFrame     int
	Workers      int
	DPI          int
	TimecodeQR   bool
	VideoEncoder string
	Quality      int
	ShowStats    bool
	BuildVersion string
}
