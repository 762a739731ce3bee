package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aglyzov/go-insn/insnmap"
	"github.com/aglyzov/go-insn/insnmap/table"
)

// decoder picks the map by the RISC-V length rule: the two low bits of a 32-bit
// instruction are both set.
type decoder struct {
	rvc  *insnmap.Map[*table.Instruction]
	rv32 *insnmap.Map[*table.Instruction]
}

func (d *decoder) decode(word uint64) (*table.Instruction, error) {
	if word&0b11 != 0b11 {
		return d.rvc.Decode(word & 0xFFFF)
	}
	return d.rv32.Decode(word & 0xFFFFFFFF)
}

func main() {
	flags := pflag.NewFlagSet("example", pflag.ExitOnError)
	flags.String("rv32", "insnmap/table/testdata/rv32i.yaml", "32-bit instruction table")
	flags.String("rvc", "insnmap/table/testdata/rvc.json", "16-bit instruction table")
	flags.Bool("debug", false, "log debug messages and dump the tries")
	_ = flags.Parse(os.Args[1:])

	v := viper.New()
	v.SetEnvPrefix("insnmap")
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)

	level := zerolog.InfoLevel
	if v.GetBool("debug") {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	var d decoder
	for _, t := range []struct {
		key string
		dst **insnmap.Map[*table.Instruction]
	}{
		{"rv32", &d.rv32},
		{"rvc", &d.rvc},
	} {
		tbl, err := table.Load(v.GetString(t.key))
		if err != nil {
			log.Fatal().Err(err).Str("table", t.key).Msg("failed to load table")
		}

		m, err := tbl.Build(insnmap.WithLogger(log))
		if err != nil {
			log.Fatal().Err(err).Str("table", t.key).Msg("failed to build instruction map")
		}

		log.Info().Str("table", t.key).Interface("stats", m.Stats()).Msg("instruction map ready")
		if v.GetBool("debug") {
			m.DebugDump(os.Stderr)
		}
		*t.dst = m
	}

	for _, arg := range flags.Args() {
		word, err := strconv.ParseUint(arg, 0, 32)
		if err != nil {
			log.Error().Err(err).Str("word", arg).Msg("not an instruction word")
			continue
		}

		in, err := d.decode(word)
		if err != nil {
			fmt.Printf("%#010x: %v\n", word, err)
			continue
		}

		fmt.Printf("%#010x: %s\n", word, in.Name)
		spew.Dump(in)
	}
}
