package renderer

const vertexShader = `
#version 410 core

in vec3 position;
in vec3 normal;
in vec2 texCoord;

uniform mat4 uMVP;

void main() {
	gl_Position = uMVP * vec4(position, 1.0);
}
`

const fragmentShader = `
#version 410 core

uniform vec3 uColor;

out vec4 fragOut;

void main() {
	fragOut = vec4(uColor, 1.0);
}
`
