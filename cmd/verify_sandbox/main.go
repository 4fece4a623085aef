// verify_sandbox 在无窗口的情况下运行沙盒场景，打印查询结果和玩家位姿
//
// 用法:
//
//	go run ./cmd/verify_sandbox -steps 600 -verbose
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/decker502/flagecs/pkg/components"
	"github.com/decker502/flagecs/pkg/config"
	"github.com/decker502/flagecs/pkg/game"
	"github.com/decker502/flagecs/pkg/input"
	"github.com/decker502/flagecs/pkg/physics"
	"github.com/decker502/flagecs/pkg/scenes"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
	configPath = flag.String("config", "data/game.yaml", "游戏配置文件路径")
	steps      = flag.Int("steps", 600, "执行的固定步数")
	moveRight  = flag.Bool("right", false, "模拟一直按住向右移动")
	jump       = flag.Bool("jump", false, "第一帧模拟按下跳跃")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadGameConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}

	src := &input.StaticSource{
		Down:        map[input.Action]bool{input.ActionMoveRight: *moveRight},
		JustPressed: map[input.Action]bool{input.ActionMoveUp: *jump},
	}
	world := physics.NewCPWorld(cfg.Physics.Iterations)
	g, err := game.NewGame(cfg, world, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "游戏初始化失败: %v\n", err)
		os.Exit(1)
	}
	// 无窗口运行，贴图不参与绘制
	if err := scenes.BuildSandbox(g, nil); err != nil {
		fmt.Fprintf(os.Stderr, "场景搭建失败: %v\n", err)
		os.Exit(1)
	}

	report("初始状态", g, world)

	for i := 0; i < *steps; i++ {
		if err := g.CaptureInput(); err != nil {
			fmt.Fprintf(os.Stderr, "第 %d 步: %v\n", i, err)
			os.Exit(1)
		}
		src.JustPressed[input.ActionMoveUp] = false

		if err := g.RunLogicSystems(cfg.Loop.FixedStep); err != nil {
			fmt.Fprintf(os.Stderr, "第 %d 步: %v\n", i, err)
			os.Exit(1)
		}
	}

	report(fmt.Sprintf("%d 步之后", *steps), g, world)
}

func report(title string, g *game.Game, world *physics.CPWorld) {
	stats := g.Stats()
	fmt.Printf("== %s ==\n", title)
	fmt.Printf("实体: %d/%d  精灵: %d  刚体: %d  固定碰撞体: %d  玩家: %d  物理对象: %d\n",
		stats.Entities, stats.Capacity, stats.Sprites, stats.Bodies, stats.Fixed, stats.Players, world.BodyCount())

	for e := range g.Registry().Query(components.Player | components.Rigidbody) {
		rb, _ := g.Rigidbody(e)
		pose, _ := world.Pose(rb.Handle)
		v, _ := world.LinearVelocity(rb.Handle)
		fmt.Printf("玩家 %v: 位置 (%.2f, %.2f)  速度 (%.2f, %.2f)  旋转 %.3f\n",
			e, pose.Translation.X, pose.Translation.Y, v.X, v.Y, pose.Rotation)
	}
	fmt.Printf("镜头目标: (%.2f, %.2f)\n", g.Camera().Target.X, g.Camera().Target.Y)
}
