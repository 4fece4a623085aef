// Profiling:
// go build ./cmd/profile_query
// ./profile_query -mode cpu
// go tool pprof -http=":8000" -nodefraction=0.001 ./profile_query cpu.pprof

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/decker502/flagecs/pkg/ecs"
	"github.com/pkg/profile"
)

// position 和 velocity 是只用于压测的组件数据
type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

// 压测专用的组件标志，每种组件一个
var (
	positionFlag = ecs.Flag(0)
	velocityFlag = ecs.Flag(1)
)

func main() {
	mode := flag.String("mode", "cpu", "profile 类型: cpu 或 mem")
	rounds := flag.Int("rounds", 50, "重建注册表的轮数")
	iters := flag.Int("iters", 1000, "每轮的查询迭代次数")
	entities := flag.Int("entities", 1000, "实体数量")
	flag.Parse()

	var opt func(*profile.Profile)
	switch *mode {
	case "cpu":
		opt = profile.CPUProfile
	case "mem":
		opt = profile.MemProfileAllocs
	default:
		log.Fatalf("未知的 profile 类型: %s", *mode)
	}

	p := profile.Start(opt, profile.ProfilePath("."), profile.NoShutdownHook)
	visited := run(*rounds, *iters, *entities)
	p.Stop()

	fmt.Printf("visited %d entities\n", visited)
}

// run 模拟沙盒的帧负载：按组件组合过滤、读写稠密容器、删除并复用槽位
func run(rounds, iters, numEntities int) int {
	visited := 0
	query := positionFlag | velocityFlag

	for range rounds {
		r := ecs.NewRegistry(numEntities)
		positions := ecs.NewDense[position](numEntities)
		velocities := ecs.NewDense[velocity](numEntities)

		for i := range numEntities {
			e, err := r.Create("Ball")
			if err != nil {
				log.Fatal(err)
			}
			_ = ecs.Attach(r, positions, positionFlag, e, position{X: float64(i)})
			// 一半实体带速度，查询需要真正过滤
			if i%2 == 0 {
				_ = ecs.Attach(r, velocities, velocityFlag, e, velocity{Y: 1})
			}
		}

		for range iters {
			for e := range r.Query(query) {
				p := positions.MustGet(e)
				v := velocities.MustGet(e)
				positions.Insert(e, position{X: p.X + v.X, Y: p.Y + v.Y})
				visited++
			}
		}

		removed := r.Collect(query)
		for _, e := range removed {
			_ = ecs.Detach(r, positions, positionFlag, e)
			_ = ecs.Detach(r, velocities, velocityFlag, e)
			_ = r.Remove(e)
		}
	}
	return visited
}
