package main

const testRoster = `
targets:
  web01:
    grains:
      os: Ubuntu
      osrelease: "22.04"
      num_cpus: 4
    pillar:
      role: web
    modules:
      test.ping: true
  web02:
    grains:
      os: Ubuntu
      osrelease: "20.04"
      num_cpus: 2
    pillar:
      role: web
  db01:
    grains:
      os: CentOS
      osrelease: "7.9.2009"
      num_cpus: 16
    pillar:
      role: db
`

const singleHost = `
grains:
  os: Debian
  num_cpus: 8
pillar:
  apache:
    port: 80
`
