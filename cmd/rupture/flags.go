package main

import (
	"github.com/spf13/pflag"
)

func mustBind(key string, flag *pflag.Flag) {
	if flag == nil {
		panic("binding missing flag to " + key)
	}
	if err := vp.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}
