/*
gwagent is the simulation core of one game shard. Players and monsters are entities of an ECS world,
stepped at a fixed tick by a scheduler that runs systems in five phases: Input, Transition, Execute,
Broadcast and Cleanup.

Systems

Systems of one phase declare the components they read and write. Systems that do not conflict run in
parallel, the others run in their declared order. Structural changes (spawn, despawn, component insert
and removal) are queued during a phase and applied at its end.

The agent package decides and executes what players and monsters do: input, movement, the action state
machine of skills and attacks, damage, pickup, inventory operations, logout, spawners. The entitysync
package keeps the visibility set of every player and sends the changes of each tick to the clients.

Running

	gwagent -configfile gwagent.ini [-log debug] [-d]

Clients connect to ws://<http_ip>:<http_port>/ws. Characters are stored by the configured storage
backend: filesystem, redis, redis_cluster or mongodb.
*/
package gwagent
